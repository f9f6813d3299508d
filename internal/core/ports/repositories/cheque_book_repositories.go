package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
)

// ChequeBookReader defines read operations for cheque book data
type ChequeBookReader interface {
	// FindChequeBookByID retrieves a book by its ID. IsActive is populated.
	FindChequeBookByID(ctx context.Context, bookID string) (*domain.ChequeBook, error)

	// FindActiveChequeBook returns the single active book, or apperrors.ErrNoActiveBook.
	FindActiveChequeBook(ctx context.Context) (*domain.ChequeBook, error)

	// ListChequeBooks retrieves books ordered by creation time.
	ListChequeBooks(ctx context.Context, limit int, offset int) ([]domain.ChequeBook, error)
}

// ChequeBookWriter defines write operations for cheque book data
type ChequeBookWriter interface {
	// SaveChequeBook persists a new book.
	SaveChequeBook(ctx context.Context, book domain.ChequeBook) error

	// UpdateChequeBook updates the editable fields of a book, including its next number.
	UpdateChequeBook(ctx context.Context, book domain.ChequeBook) error

	// ActivateChequeBook atomically makes bookID the only active book.
	ActivateChequeBook(ctx context.Context, bookID string, userID string, now time.Time) error

	// DeactivateChequeBook clears the active reference if it points at bookID.
	DeactivateChequeBook(ctx context.Context, bookID string) error
}

// LeafReserver hands out cheque numbers.
type LeafReserver interface {
	// ReserveLeaves advances next_number by count under a row lock and returns
	// the first reserved number. Fails with apperrors.ErrBookExhausted when the
	// book is already past its end number.
	ReserveLeaves(ctx context.Context, bookID string, count int) (domain.LeafReservation, error)
}

// ChequeBookRepositoryFacade combines all cheque book repository interfaces
type ChequeBookRepositoryFacade interface {
	ChequeBookReader
	ChequeBookWriter
	LeafReserver
}
