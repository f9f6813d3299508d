package domain

import (
	"errors"
	"fmt"
)

// ChequeBook is a physical booklet of sequentially numbered leaves.
type ChequeBook struct {
	BookID      string `json:"bookID" db:"book_id"`
	BookName    string `json:"bookName" db:"book_name"`
	BankName    string `json:"bankName" db:"bank_name"`
	StartNumber int64  `json:"startNumber" db:"start_number"`
	EndNumber   int64  `json:"endNumber" db:"end_number"`
	NextNumber  int64  `json:"nextNumber" db:"next_number"` // next leaf to issue
	IsActive    bool   `json:"isActive" db:"is_active"`     // derived from the active-book reference
	AuditFields
}

// RemainingLeaves is never negative, even after an overdraw.
func (b ChequeBook) RemainingLeaves() int64 {
	remaining := b.EndNumber - b.NextNumber + 1
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExhausted reports whether the next leaf would fall past the end of the book.
func (b ChequeBook) IsExhausted() bool {
	return b.NextNumber > b.EndNumber
}

// Validate checks a new book, or an edit that moves its start, end or next number.
func (b ChequeBook) Validate() error {
	if err := b.ValidateDetails(); err != nil {
		return err
	}
	if b.NextNumber < b.StartNumber || b.NextNumber > b.EndNumber+1 {
		return fmt.Errorf("next number %d must lie within [%d, %d]", b.NextNumber, b.StartNumber, b.EndNumber+1)
	}
	return nil
}

// ValidateDetails checks names and the start/end range only. An overdrawn
// book (next past end+1) still passes, so it can be renamed.
func (b ChequeBook) ValidateDetails() error {
	if b.BookName == "" {
		return errors.New("book name is required")
	}
	if b.BankName == "" {
		return errors.New("bank name is required")
	}
	if b.StartNumber <= 0 {
		return fmt.Errorf("start number must be positive, got %d", b.StartNumber)
	}
	if b.StartNumber > b.EndNumber {
		return fmt.Errorf("start number %d is after end number %d", b.StartNumber, b.EndNumber)
	}
	return nil
}

// LeafReservation is an ephemeral, never-reused range of cheque numbers.
type LeafReservation struct {
	BookID      string `json:"bookID"`
	FirstNumber int64  `json:"firstNumber"`
	Count       int    `json:"count"`
}

// LastNumber is the final number in the range.
func (r LeafReservation) LastNumber() int64 {
	return r.FirstNumber + int64(r.Count) - 1
}

// Numbers expands the reservation into individual cheque numbers.
func (r LeafReservation) Numbers() []int64 {
	numbers := make([]int64, r.Count)
	for i := range numbers {
		numbers[i] = r.FirstNumber + int64(i)
	}
	return numbers
}

// Overlaps reports whether two reservations on the same book share a number.
func (r LeafReservation) Overlaps(other LeafReservation) bool {
	if r.BookID != other.BookID || r.Count == 0 || other.Count == 0 {
		return false
	}
	return r.FirstNumber <= other.LastNumber() && other.FirstNumber <= r.LastNumber()
}
