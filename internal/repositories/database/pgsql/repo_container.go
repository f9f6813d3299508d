package pgsql

import (
	portsrepo "github.com/SscSPs/cheque_printer/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ChequeBookRepo: newPgxChequeBookRepository(dbPool),
		TemplateRepo:   newPgxTemplateRepository(dbPool),
		SignatureRepo:  newPgxSignatureRepository(dbPool),
		QueueRepo:      newPgxPrintQueueRepository(dbPool),
		LedgerRepo:     newPgxLedgerRepository(dbPool),
		VoidRangeRepo:  newPgxVoidRangeRepository(dbPool),
		PurchaseRepo:   newPgxPurchaseRepository(dbPool),
	}
}
