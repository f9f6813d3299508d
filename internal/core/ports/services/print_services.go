package services

import (
	"context"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/SscSPs/cheque_printer/internal/dto"
)

// PrintQueueSvcFacade manages cheques waiting to be printed.
type PrintQueueSvcFacade interface {
	Enqueue(ctx context.Context, req dto.EnqueueChequeRequest, userID string) (*domain.PrintQueueItem, error)
	// ListQueue returns the queue in print order.
	ListQueue(ctx context.Context) ([]domain.PrintQueueItem, error)
	RemoveItems(ctx context.Context, itemIDs []string, userID string) error
}

// LedgerSvcFacade exposes the audit trail of printed and failed cheques.
type LedgerSvcFacade interface {
	ListLedger(ctx context.Context, params dto.ListLedgerParams) (*dto.ListLedgerResponse, error)
	ListVoidRanges(ctx context.Context, bookID string) ([]domain.VoidRange, error)
}

// BatchPrintSvc runs the batch print state machine.
type BatchPrintSvc interface {
	// PrintBatch prints every queued cheque against one book. A non-nil
	// result is returned whenever a batch ID was assigned, including failures.
	PrintBatch(ctx context.Context, req domain.BatchPrintRequest) (*domain.PrintResult, error)
}

// PreviewSvc renders cheques without touching any persisted state.
type PreviewSvc interface {
	// Preview returns a one-page PDF with the template background drawn underneath.
	Preview(ctx context.Context, req dto.PreviewRequest) ([]byte, error)
}
