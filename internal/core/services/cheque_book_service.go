package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	portsrepo "github.com/SscSPs/cheque_printer/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cheque_printer/internal/core/ports/services"
	"github.com/SscSPs/cheque_printer/internal/dto"
	"github.com/SscSPs/cheque_printer/internal/locks"
	"github.com/google/uuid"
)

// chequeBookService implements the ChequeBookSvcFacade interface
type chequeBookService struct {
	BaseService
	bookRepo portsrepo.ChequeBookRepositoryFacade
	locker   locks.Locker
}

// NewChequeBookService creates a cheque book service. locker must be the same
// one the allocator uses so manual edits never race a reservation.
func NewChequeBookService(repo portsrepo.ChequeBookRepositoryFacade, locker locks.Locker) portssvc.ChequeBookSvcFacade {
	if locker == nil {
		locker = locks.NewKeyedMutex()
	}
	return &chequeBookService{bookRepo: repo, locker: locker}
}

var _ portssvc.ChequeBookSvcFacade = (*chequeBookService)(nil)

func (s *chequeBookService) CreateChequeBook(ctx context.Context, req dto.CreateChequeBookRequest, userID string) (*domain.ChequeBook, error) {
	now := time.Now()
	book := domain.ChequeBook{
		BookID:      uuid.NewString(),
		BookName:    req.BookName,
		BankName:    req.BankName,
		StartNumber: req.StartNumber,
		EndNumber:   req.EndNumber,
		NextNumber:  req.StartNumber,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.NextNumber != nil {
		book.NextNumber = *req.NextNumber
	}
	if err := book.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.bookRepo.SaveChequeBook(ctx, book); err != nil {
		s.LogError(ctx, err, "Failed to save cheque book", slog.String("book_name", book.BookName))
		return nil, fmt.Errorf("failed to create cheque book: %w", err)
	}
	s.LogInfo(ctx, "Cheque book created",
		slog.String("book_id", book.BookID),
		slog.Int64("start_number", book.StartNumber),
		slog.Int64("end_number", book.EndNumber))

	if req.Activate {
		return s.ActivateChequeBook(ctx, book.BookID, userID)
	}
	return &book, nil
}

func (s *chequeBookService) GetChequeBook(ctx context.Context, bookID string) (*domain.ChequeBook, error) {
	book, err := s.bookRepo.FindChequeBookByID(ctx, bookID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get cheque book", slog.String("book_id", bookID))
		}
		return nil, err
	}
	return book, nil
}

func (s *chequeBookService) GetActiveChequeBook(ctx context.Context) (*domain.ChequeBook, error) {
	book, err := s.bookRepo.FindActiveChequeBook(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNoActiveBook) {
			s.LogError(ctx, err, "Failed to get active cheque book")
		}
		return nil, err
	}
	return book, nil
}

func (s *chequeBookService) ListChequeBooks(ctx context.Context, limit int, offset int) ([]domain.ChequeBook, error) {
	books, err := s.bookRepo.ListChequeBooks(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cheque books")
		return nil, fmt.Errorf("failed to list cheque books: %w", err)
	}
	if books == nil {
		return []domain.ChequeBook{}, nil
	}
	return books, nil
}

// UpdateChequeBook applies a manual correction. The next number may move
// forward to skip spoiled leaves but never backward onto issued numbers.
func (s *chequeBookService) UpdateChequeBook(ctx context.Context, bookID string, req dto.UpdateChequeBookRequest, userID string) (*domain.ChequeBook, error) {
	unlock, err := s.locker.Lock(ctx, bookLockKey(bookID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock cheque book %s: %w", bookID, err)
	}
	defer unlock()

	book, err := s.bookRepo.FindChequeBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if req.BookName != nil {
		book.BookName = *req.BookName
	}
	if req.BankName != nil {
		book.BankName = *req.BankName
	}
	if req.StartNumber != nil {
		book.StartNumber = *req.StartNumber
	}
	if req.EndNumber != nil {
		book.EndNumber = *req.EndNumber
	}
	if req.NextNumber != nil {
		if *req.NextNumber < book.NextNumber {
			return nil, apperrors.NewConflictError(fmt.Sprintf("next number %d would reissue numbers up to %d", *req.NextNumber, book.NextNumber-1))
		}
		book.NextNumber = *req.NextNumber
	}
	validate := book.ValidateDetails
	if req.StartNumber != nil || req.EndNumber != nil || req.NextNumber != nil {
		validate = book.Validate
	}
	if err := validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	book.LastUpdatedAt = time.Now()
	book.LastUpdatedBy = userID

	if err := s.bookRepo.UpdateChequeBook(ctx, *book); err != nil {
		s.LogError(ctx, err, "Failed to update cheque book", slog.String("book_id", bookID))
		return nil, fmt.Errorf("failed to update cheque book: %w", err)
	}
	s.LogInfo(ctx, "Cheque book updated", slog.String("book_id", bookID), slog.Int64("next_number", book.NextNumber))
	return book, nil
}

func (s *chequeBookService) ActivateChequeBook(ctx context.Context, bookID string, userID string) (*domain.ChequeBook, error) {
	if err := s.bookRepo.ActivateChequeBook(ctx, bookID, userID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to activate cheque book", slog.String("book_id", bookID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Cheque book activated", slog.String("book_id", bookID), slog.String("user_id", userID))
	return s.bookRepo.FindChequeBookByID(ctx, bookID)
}

func (s *chequeBookService) DeactivateChequeBook(ctx context.Context, bookID string, userID string) error {
	if err := s.bookRepo.DeactivateChequeBook(ctx, bookID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate cheque book", slog.String("book_id", bookID))
		}
		return err
	}
	s.LogInfo(ctx, "Cheque book deactivated", slog.String("book_id", bookID), slog.String("user_id", userID))
	return nil
}
