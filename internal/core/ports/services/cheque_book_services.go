package services

import (
	"context"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/SscSPs/cheque_printer/internal/dto"
)

// ChequeBookReaderSvc defines read operations for cheque books
type ChequeBookReaderSvc interface {
	// GetChequeBook retrieves a book by ID.
	GetChequeBook(ctx context.Context, bookID string) (*domain.ChequeBook, error)

	// GetActiveChequeBook returns the book that batch prints draw from.
	GetActiveChequeBook(ctx context.Context) (*domain.ChequeBook, error)

	// ListChequeBooks retrieves books with pagination.
	ListChequeBooks(ctx context.Context, limit int, offset int) ([]domain.ChequeBook, error)
}

// ChequeBookWriterSvc defines write operations for cheque books
type ChequeBookWriterSvc interface {
	CreateChequeBook(ctx context.Context, req dto.CreateChequeBookRequest, userID string) (*domain.ChequeBook, error)
	UpdateChequeBook(ctx context.Context, bookID string, req dto.UpdateChequeBookRequest, userID string) (*domain.ChequeBook, error)

	// ActivateChequeBook makes bookID the single active book.
	ActivateChequeBook(ctx context.Context, bookID string, userID string) (*domain.ChequeBook, error)
	DeactivateChequeBook(ctx context.Context, bookID string, userID string) error
}

// ChequeBookSvcFacade combines all cheque book service interfaces
type ChequeBookSvcFacade interface {
	ChequeBookReaderSvc
	ChequeBookWriterSvc
}

// LeafAllocatorSvc hands out disjoint ranges of cheque numbers.
type LeafAllocatorSvc interface {
	// Reserve atomically takes count consecutive numbers from a book.
	Reserve(ctx context.Context, bookID string, count int) (domain.LeafReservation, error)
}
