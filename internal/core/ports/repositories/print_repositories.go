package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
)

// PrintQueueReader defines read operations for the print queue
type PrintQueueReader interface {
	// ListQueueFIFO returns queued items ordered by (created_at, item_id).
	ListQueueFIFO(ctx context.Context) ([]domain.PrintQueueItem, error)
}

// PrintQueueWriter defines write operations for the print queue
type PrintQueueWriter interface {
	EnqueueItem(ctx context.Context, item domain.PrintQueueItem) error

	// RemoveQueueItems deletes the given items. Missing IDs are ignored.
	RemoveQueueItems(ctx context.Context, itemIDs []string) error
}

// PrintQueueRepositoryFacade combines all print queue repository interfaces
type PrintQueueRepositoryFacade interface {
	PrintQueueReader
	PrintQueueWriter
}

// LedgerRepositoryFacade is the append-only cheque ledger.
type LedgerRepositoryFacade interface {
	// AppendLedgerEntries inserts all entries in one transaction.
	AppendLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) error

	// ListLedgerEntries returns entries newest first. When nextToken is non-empty
	// listing resumes after the entry it encodes.
	ListLedgerEntries(ctx context.Context, bookID string, limit int, nextToken string) ([]domain.LedgerEntry, string, error)
}

// VoidRangeRepositoryFacade records reserved numbers that were never printed.
type VoidRangeRepositoryFacade interface {
	SaveVoidRange(ctx context.Context, vr domain.VoidRange) error
	ListVoidRanges(ctx context.Context, bookID string) ([]domain.VoidRange, error)
}

// PurchaseRepositoryFacade is the narrow view of purchases the printer needs.
type PurchaseRepositoryFacade interface {
	// MarkPurchasePaid records the cheque that settled a purchase.
	MarkPurchasePaid(ctx context.Context, purchaseID string, chequeNumber int64, chequeDate time.Time) error
}
