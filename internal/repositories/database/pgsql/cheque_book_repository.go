package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	portsrepo "github.com/SscSPs/cheque_printer/internal/core/ports/repositories"
	"github.com/SscSPs/cheque_printer/internal/models"
	"github.com/SscSPs/cheque_printer/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxChequeBookRepository struct {
	BaseRepository
}

// newPgxChequeBookRepository creates a new repository for cheque books.
func newPgxChequeBookRepository(pool *pgxpool.Pool) portsrepo.ChequeBookRepositoryFacade {
	return &PgxChequeBookRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxChequeBookRepository implements portsrepo.ChequeBookRepositoryFacade
var _ portsrepo.ChequeBookRepositoryFacade = (*PgxChequeBookRepository)(nil)

var FULL_CHEQUE_BOOK_SELECT_QUERY = `
SELECT
	b.book_id, b.book_name, b.bank_name, b.start_number, b.end_number, b.next_number,
	(a.book_id IS NOT NULL) AS is_active,
	b.created_at, b.created_by, b.last_updated_at, b.last_updated_by
FROM cheque_books b
LEFT JOIN active_cheque_book a ON a.book_id = b.book_id
`

func (r *PgxChequeBookRepository) getChequeBooks(ctx context.Context, filterQuery string, args ...any) ([]domain.ChequeBook, error) {
	rows, err := r.Pool.Query(ctx, FULL_CHEQUE_BOOK_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query cheque books", err)
	}
	defer rows.Close()
	modelBooks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ChequeBook])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect cheque book rows", err)
	}
	return mapping.ToDomainChequeBookSlice(modelBooks), nil
}

// FindChequeBookByID retrieves a cheque book by ID.
func (r *PgxChequeBookRepository) FindChequeBookByID(ctx context.Context, bookID string) (*domain.ChequeBook, error) {
	books, err := r.getChequeBooks(ctx, "WHERE b.book_id = $1", bookID)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, apperrors.ErrBookNotFound
	}
	return &books[0], nil
}

// FindActiveChequeBook retrieves the book the singleton reference points at.
func (r *PgxChequeBookRepository) FindActiveChequeBook(ctx context.Context) (*domain.ChequeBook, error) {
	books, err := r.getChequeBooks(ctx, "WHERE a.book_id IS NOT NULL")
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, apperrors.ErrNoActiveBook
	}
	return &books[0], nil
}

// ListChequeBooks lists books oldest first.
func (r *PgxChequeBookRepository) ListChequeBooks(ctx context.Context, limit int, offset int) ([]domain.ChequeBook, error) {
	return r.getChequeBooks(ctx, "ORDER BY b.created_at, b.book_id LIMIT $1 OFFSET $2", limit, offset)
}

// SaveChequeBook inserts a new cheque book.
func (r *PgxChequeBookRepository) SaveChequeBook(ctx context.Context, book domain.ChequeBook) error {
	m := mapping.ToModelChequeBook(book)
	query := `
		INSERT INTO cheque_books (
			book_id, book_name, bank_name, start_number, end_number, next_number,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BookID, m.BookName, m.BankName, m.StartNumber, m.EndNumber, m.NextNumber,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cheque book %s", apperrors.ErrDuplicate, m.BookID)
		}
		return apperrors.NewAppError(500, "failed to insert cheque book "+m.BookID, err)
	}
	return nil
}

// UpdateChequeBook updates names and the numeric range of a book. The row is
// only written while its stored next_number is not ahead of the new one, so
// a reservation committed by another process is never rolled back.
func (r *PgxChequeBookRepository) UpdateChequeBook(ctx context.Context, book domain.ChequeBook) error {
	m := mapping.ToModelChequeBook(book)
	query := `
		UPDATE cheque_books
		SET book_name = $2, bank_name = $3, start_number = $4, end_number = $5, next_number = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE book_id = $1 AND next_number <= $6;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.BookID, m.BookName, m.BankName, m.StartNumber, m.EndNumber, m.NextNumber,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update cheque book "+m.BookID, err)
	}
	if tag.RowsAffected() == 0 {
		current, err := r.FindChequeBookByID(ctx, m.BookID)
		if err != nil {
			return err
		}
		return apperrors.NewConflictError(fmt.Sprintf("cheque book %s next number is already %d", m.BookID, current.NextNumber))
	}
	return nil
}

// ActivateChequeBook points the singleton reference at bookID in one statement,
// so readers never observe two active books or a half-finished switch.
func (r *PgxChequeBookRepository) ActivateChequeBook(ctx context.Context, bookID string, userID string, now time.Time) error {
	query := `
		INSERT INTO active_cheque_book (singleton, book_id, activated_at, activated_by)
		VALUES (TRUE, $1, $2, $3)
		ON CONFLICT (singleton) DO UPDATE SET
			book_id = EXCLUDED.book_id,
			activated_at = EXCLUDED.activated_at,
			activated_by = EXCLUDED.activated_by;
	`
	if _, err := r.Pool.Exec(ctx, query, bookID, now, userID); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrBookNotFound
		}
		return apperrors.NewAppError(500, "failed to activate cheque book "+bookID, err)
	}
	return nil
}

// DeactivateChequeBook clears the active reference when it points at bookID.
func (r *PgxChequeBookRepository) DeactivateChequeBook(ctx context.Context, bookID string) error {
	if _, err := r.FindChequeBookByID(ctx, bookID); err != nil {
		return err
	}
	if _, err := r.Pool.Exec(ctx, `DELETE FROM active_cheque_book WHERE book_id = $1;`, bookID); err != nil {
		return apperrors.NewAppError(500, "failed to deactivate cheque book "+bookID, err)
	}
	return nil
}

// ReserveLeaves locks the book row, checks it is not exhausted and advances
// next_number by count, all in one transaction.
func (r *PgxChequeBookRepository) ReserveLeaves(ctx context.Context, bookID string, count int) (domain.LeafReservation, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return domain.LeafReservation{}, err
	}
	defer r.Rollback(ctx, tx) // ignored once committed

	var next, end int64
	err = tx.QueryRow(ctx, `SELECT next_number, end_number FROM cheque_books WHERE book_id = $1 FOR UPDATE;`, bookID).Scan(&next, &end)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LeafReservation{}, apperrors.ErrBookNotFound
		}
		return domain.LeafReservation{}, apperrors.NewAppError(500, "failed to lock cheque book "+bookID, err)
	}
	if next > end {
		return domain.LeafReservation{}, fmt.Errorf("%w: book %s next number %d is past end number %d",
			apperrors.ErrBookExhausted, bookID, next, end)
	}

	_, err = tx.Exec(ctx, `UPDATE cheque_books SET next_number = next_number + $2, last_updated_at = $3 WHERE book_id = $1;`,
		bookID, count, time.Now().UTC())
	if err != nil {
		return domain.LeafReservation{}, apperrors.NewAppError(500, "failed to advance cheque book "+bookID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return domain.LeafReservation{}, err
	}
	return domain.LeafReservation{BookID: bookID, FirstNumber: next, Count: count}, nil
}
