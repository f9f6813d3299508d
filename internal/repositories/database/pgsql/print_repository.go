package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	portsrepo "github.com/SscSPs/cheque_printer/internal/core/ports/repositories"
	"github.com/SscSPs/cheque_printer/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPrintQueueRepository struct {
	BaseRepository
}

func newPgxPrintQueueRepository(pool *pgxpool.Pool) portsrepo.PrintQueueRepositoryFacade {
	return &PgxPrintQueueRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PrintQueueRepositoryFacade = (*PgxPrintQueueRepository)(nil)

// ListQueueFIFO returns every queued item, oldest first.
func (r *PgxPrintQueueRepository) ListQueueFIFO(ctx context.Context) ([]domain.PrintQueueItem, error) {
	query := `
		SELECT item_id, purchase_id, payee_name, amount, cheque_date, is_ac_payee, created_at, created_by
		FROM print_queue
		ORDER BY created_at, item_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query print queue", err)
	}
	defer rows.Close()
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.PrintQueueItem])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect print queue rows", err)
	}
	return items, nil
}

// EnqueueItem adds an item to the queue.
func (r *PgxPrintQueueRepository) EnqueueItem(ctx context.Context, item domain.PrintQueueItem) error {
	query := `
		INSERT INTO print_queue (item_id, purchase_id, payee_name, amount, cheque_date, is_ac_payee, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		item.ItemID, item.PurchaseID, item.PayeeName, item.Amount, item.ChequeDate, item.IsAcPayee, item.CreatedAt, item.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: queue item %s", apperrors.ErrDuplicate, item.ItemID)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: unknown purchase", apperrors.ErrValidation)
		}
		return apperrors.NewAppError(500, "failed to enqueue item "+item.ItemID, err)
	}
	return nil
}

// RemoveQueueItems deletes the given items.
func (r *PgxPrintQueueRepository) RemoveQueueItems(ctx context.Context, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if _, err := r.Pool.Exec(ctx, `DELETE FROM print_queue WHERE item_id = ANY($1);`, itemIDs); err != nil {
		return apperrors.NewAppError(500, "failed to remove queue items", err)
	}
	return nil
}

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// AppendLedgerEntries inserts all entries with one batch inside a transaction.
func (r *PgxLedgerRepository) AppendLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // ignored once committed

	batch := &pgx.Batch{}
	query := `
		INSERT INTO cheque_ledger (
			entry_id, user_id, batch_id, book_id, template_id, payee_name, amount,
			cheque_number, print_status, remarks, printed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, e := range entries {
		batch.Queue(query,
			e.EntryID, e.UserID, e.BatchID, e.BookID, e.TemplateID, e.PayeeName, e.Amount,
			e.ChequeNumber, string(e.PrintStatus), e.Remarks, e.PrintedAt,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger entries", err)
	}
	return r.Commit(ctx, tx)
}

// ListLedgerEntries pages the ledger newest first with a keyset token.
func (r *PgxLedgerRepository) ListLedgerEntries(ctx context.Context, bookID string, limit int, nextToken string) ([]domain.LedgerEntry, string, error) {
	afterTime := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	afterID := ""
	if nextToken != "" {
		t, id, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		afterTime, afterID = t, id
	}

	query := `
		SELECT entry_id, user_id, batch_id, book_id, template_id, payee_name, amount,
			cheque_number, print_status, remarks, printed_at
		FROM cheque_ledger
		WHERE ($1 = '' OR book_id = $1)
			AND ($3 = '' OR (printed_at, entry_id) < ($2, $3))
		ORDER BY printed_at DESC, entry_id DESC
		LIMIT $4;
	`
	rows, err := r.Pool.Query(ctx, query, bookID, afterTime, afterID, limit+1)
	if err != nil {
		return nil, "", apperrors.NewAppError(500, "failed to query ledger", err)
	}
	defer rows.Close()
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.LedgerEntry])
	if err != nil {
		return nil, "", apperrors.NewAppError(500, "failed to collect ledger rows", err)
	}

	if len(entries) <= limit {
		return entries, "", nil
	}
	last := entries[limit-1]
	return entries[:limit], pagination.EncodeToken(last.PrintedAt, last.EntryID), nil
}

type PgxVoidRangeRepository struct {
	BaseRepository
}

func newPgxVoidRangeRepository(pool *pgxpool.Pool) portsrepo.VoidRangeRepositoryFacade {
	return &PgxVoidRangeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.VoidRangeRepositoryFacade = (*PgxVoidRangeRepository)(nil)

// SaveVoidRange records an unprinted reservation.
func (r *PgxVoidRangeRepository) SaveVoidRange(ctx context.Context, vr domain.VoidRange) error {
	query := `
		INSERT INTO void_leaf_ranges (void_id, book_id, batch_id, first_number, count, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query, vr.VoidID, vr.BookID, vr.BatchID, vr.FirstNumber, vr.Count, vr.Reason, vr.CreatedAt, vr.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to record void range for batch "+vr.BatchID, err)
	}
	return nil
}

// ListVoidRanges lists void ranges, optionally for one book.
func (r *PgxVoidRangeRepository) ListVoidRanges(ctx context.Context, bookID string) ([]domain.VoidRange, error) {
	query := `
		SELECT void_id, book_id, batch_id, first_number, count, reason, created_at, created_by
		FROM void_leaf_ranges
		WHERE ($1 = '' OR book_id = $1)
		ORDER BY book_id, first_number;
	`
	rows, err := r.Pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query void ranges", err)
	}
	defer rows.Close()
	voids, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.VoidRange])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect void range rows", err)
	}
	return voids, nil
}

type PgxPurchaseRepository struct {
	BaseRepository
}

func newPgxPurchaseRepository(pool *pgxpool.Pool) portsrepo.PurchaseRepositoryFacade {
	return &PgxPurchaseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PurchaseRepositoryFacade = (*PgxPurchaseRepository)(nil)

// MarkPurchasePaid flips a purchase to PAID with the cheque that settled it.
func (r *PgxPurchaseRepository) MarkPurchasePaid(ctx context.Context, purchaseID string, chequeNumber int64, chequeDate time.Time) error {
	query := `
		UPDATE purchases
		SET status = $2, cheque_number = $3, cheque_date = $4, paid_at = NOW()
		WHERE purchase_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, purchaseID, string(domain.PurchasePaid), chequeNumber, chequeDate)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark purchase "+purchaseID+" paid", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: purchase %s", apperrors.ErrNotFound, purchaseID)
	}
	return nil
}
