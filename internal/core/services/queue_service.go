package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	portsrepo "github.com/SscSPs/cheque_printer/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cheque_printer/internal/core/ports/services"
	"github.com/SscSPs/cheque_printer/internal/dto"
	"github.com/google/uuid"
)

type printQueueService struct {
	BaseService
	queueRepo portsrepo.PrintQueueRepositoryFacade
}

// NewPrintQueueService creates a print queue service.
func NewPrintQueueService(repo portsrepo.PrintQueueRepositoryFacade) portssvc.PrintQueueSvcFacade {
	return &printQueueService{queueRepo: repo}
}

var _ portssvc.PrintQueueSvcFacade = (*printQueueService)(nil)

func (s *printQueueService) Enqueue(ctx context.Context, req dto.EnqueueChequeRequest, userID string) (*domain.PrintQueueItem, error) {
	date, err := dto.ParseChequeDate(req.ChequeDate, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid cheque date: %s", apperrors.ErrValidation, err.Error())
	}
	item := domain.PrintQueueItem{
		ItemID:     uuid.NewString(),
		PurchaseID: req.PurchaseID,
		PayeeName:  req.PayeeName,
		Amount:     req.Amount.Decimal.Round(2),
		ChequeDate: date,
		IsAcPayee:  req.IsAcPayee,
		CreatedAt:  time.Now().UTC(),
		CreatedBy:  userID,
	}
	if err := item.Request().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.queueRepo.EnqueueItem(ctx, item); err != nil {
		s.LogError(ctx, err, "Failed to enqueue cheque", slog.String("payee", item.PayeeName))
		return nil, fmt.Errorf("failed to enqueue cheque: %w", err)
	}
	s.LogInfo(ctx, "Cheque queued for printing", slog.String("item_id", item.ItemID), slog.String("amount", item.Amount.StringFixed(2)))
	return &item, nil
}

func (s *printQueueService) ListQueue(ctx context.Context) ([]domain.PrintQueueItem, error) {
	items, err := s.queueRepo.ListQueueFIFO(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list print queue")
		return nil, fmt.Errorf("failed to list print queue: %w", err)
	}
	if items == nil {
		return []domain.PrintQueueItem{}, nil
	}
	return items, nil
}

func (s *printQueueService) RemoveItems(ctx context.Context, itemIDs []string, userID string) error {
	if len(itemIDs) == 0 {
		return fmt.Errorf("%w: no queue items given", apperrors.ErrValidation)
	}
	if err := s.queueRepo.RemoveQueueItems(ctx, itemIDs); err != nil {
		s.LogError(ctx, err, "Failed to remove queue items", slog.Int("count", len(itemIDs)))
		return fmt.Errorf("failed to remove queue items: %w", err)
	}
	s.LogInfo(ctx, "Queue items removed", slog.Int("count", len(itemIDs)), slog.String("user_id", userID))
	return nil
}
