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
	"github.com/SscSPs/cheque_printer/internal/dto"
	"github.com/SscSPs/cheque_printer/internal/utils/pagination"
)

const defaultLedgerPageSize = 50

type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
	voidRepo   portsrepo.VoidRangeRepositoryFacade
}

// NewLedgerService creates the read side of the cheque ledger.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, voidRepo portsrepo.VoidRangeRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo, voidRepo: voidRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) ListLedger(ctx context.Context, params dto.ListLedgerParams) (*dto.ListLedgerResponse, error) {
	if params.Limit <= 0 {
		params.Limit = defaultLedgerPageSize
	}
	if params.NextToken != "" {
		if _, _, err := pagination.DecodeToken(params.NextToken); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
	}

	entries, next, err := s.ledgerRepo.ListLedgerEntries(ctx, params.BookID, params.Limit, params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list ledger", slog.String("book_id", params.BookID))
		}
		return nil, fmt.Errorf("failed to list ledger: %w", err)
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	return &dto.ListLedgerResponse{Entries: entries, NextToken: next}, nil
}

func (s *ledgerService) ListVoidRanges(ctx context.Context, bookID string) ([]domain.VoidRange, error) {
	ranges, err := s.voidRepo.ListVoidRanges(ctx, bookID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list void ranges", slog.String("book_id", bookID))
		return nil, fmt.Errorf("failed to list void ranges: %w", err)
	}
	if ranges == nil {
		return []domain.VoidRange{}, nil
	}
	return ranges, nil
}
