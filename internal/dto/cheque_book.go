package dto

import (
	"time"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
)

// CreateChequeBookRequest defines the data needed to register a new cheque book.
type CreateChequeBookRequest struct {
	BookName    string `json:"bookName" binding:"required"`
	BankName    string `json:"bankName" binding:"required"`
	StartNumber int64  `json:"startNumber" binding:"required,gt=0"`
	EndNumber   int64  `json:"endNumber" binding:"required,gtefield=StartNumber"`
	// NextNumber defaults to StartNumber for a fresh book.
	NextNumber *int64 `json:"nextNumber,omitempty"`
	Activate   bool   `json:"activate"`
}

// UpdateChequeBookRequest patches a cheque book. Nil fields are left unchanged.
type UpdateChequeBookRequest struct {
	BookName    *string `json:"bookName,omitempty"`
	BankName    *string `json:"bankName,omitempty"`
	StartNumber *int64  `json:"startNumber,omitempty"`
	EndNumber   *int64  `json:"endNumber,omitempty"`
	NextNumber  *int64  `json:"nextNumber,omitempty"`
}

// ChequeBookResponse defines the data returned for a cheque book.
type ChequeBookResponse struct {
	BookID          string    `json:"bookID"`
	BookName        string    `json:"bookName"`
	BankName        string    `json:"bankName"`
	StartNumber     int64     `json:"startNumber"`
	EndNumber       int64     `json:"endNumber"`
	NextNumber      int64     `json:"nextNumber"`
	RemainingLeaves int64     `json:"remainingLeaves"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	CreatedBy       string    `json:"createdBy"`
	LastUpdatedAt   time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy   string    `json:"lastUpdatedBy"`
}

// ToChequeBookResponse converts a domain.ChequeBook to its response DTO.
func ToChequeBookResponse(b *domain.ChequeBook) ChequeBookResponse {
	return ChequeBookResponse{
		BookID:          b.BookID,
		BookName:        b.BookName,
		BankName:        b.BankName,
		StartNumber:     b.StartNumber,
		EndNumber:       b.EndNumber,
		NextNumber:      b.NextNumber,
		RemainingLeaves: b.RemainingLeaves(),
		IsActive:        b.IsActive,
		CreatedAt:       b.CreatedAt,
		CreatedBy:       b.CreatedBy,
		LastUpdatedAt:   b.LastUpdatedAt,
		LastUpdatedBy:   b.LastUpdatedBy,
	}
}

// ToListChequeBookResponse converts a slice of books.
func ToListChequeBookResponse(books []domain.ChequeBook) []ChequeBookResponse {
	res := make([]ChequeBookResponse, len(books))
	for i := range books {
		res[i] = ToChequeBookResponse(&books[i])
	}
	return res
}

// ListChequeBooksParams defines the query parameters for listing books.
type ListChequeBooksParams struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}
