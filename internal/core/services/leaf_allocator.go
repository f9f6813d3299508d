package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	portsrepo "github.com/SscSPs/cheque_printer/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cheque_printer/internal/core/ports/services"
	"github.com/SscSPs/cheque_printer/internal/locks"
)

// bookLockKey is the lock name shared by everything that moves a book's next number.
func bookLockKey(bookID string) string {
	return "cheque-book:" + bookID
}

// leafAllocator implements the LeafAllocatorSvc interface
type leafAllocator struct {
	BaseService
	repo   portsrepo.LeafReserver
	locker locks.Locker
}

// AllocatorOption is a functional option for configuring the leaf allocator
type AllocatorOption func(*leafAllocator)

// WithAllocatorLocker replaces the default in-process lock, e.g. with a
// locks.Chain that also takes a Redis lock.
func WithAllocatorLocker(l locks.Locker) AllocatorOption {
	return func(a *leafAllocator) {
		a.locker = l
	}
}

// NewLeafAllocator creates a new allocator over repo.
func NewLeafAllocator(repo portsrepo.LeafReserver, options ...AllocatorOption) portssvc.LeafAllocatorSvc {
	a := &leafAllocator{
		repo:   repo,
		locker: locks.NewKeyedMutex(),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

var _ portssvc.LeafAllocatorSvc = (*leafAllocator)(nil)

// Reserve takes count consecutive numbers. The repository transaction is the
// source of truth; the lock only keeps same-book callers from queueing on the row lock.
func (a *leafAllocator) Reserve(ctx context.Context, bookID string, count int) (domain.LeafReservation, error) {
	if count <= 0 {
		return domain.LeafReservation{}, fmt.Errorf("%w: reservation count must be positive, got %d", apperrors.ErrValidation, count)
	}

	unlock, err := a.locker.Lock(ctx, bookLockKey(bookID))
	if err != nil {
		a.LogError(ctx, err, "Failed to acquire cheque book lock", slog.String("book_id", bookID))
		return domain.LeafReservation{}, fmt.Errorf("failed to lock cheque book %s: %w", bookID, err)
	}
	defer unlock()

	res, err := a.repo.ReserveLeaves(ctx, bookID, count)
	if err != nil {
		if !errors.Is(err, apperrors.ErrBookNotFound) && !errors.Is(err, apperrors.ErrBookExhausted) {
			a.LogError(ctx, err, "Failed to reserve leaves", slog.String("book_id", bookID), slog.Int("count", count))
		}
		return domain.LeafReservation{}, err
	}

	a.LogInfo(ctx, "Reserved cheque leaves",
		slog.String("book_id", bookID),
		slog.Int64("first_number", res.FirstNumber),
		slog.Int64("last_number", res.LastNumber()))
	return res, nil
}
