package services

import (
	"github.com/SscSPs/cheque_printer/internal/core/ports"
	portsrepo "github.com/SscSPs/cheque_printer/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cheque_printer/internal/core/ports/services"
	"github.com/SscSPs/cheque_printer/internal/locks"
	"github.com/SscSPs/cheque_printer/internal/platform/config"
)

// Infrastructure holds the non-repository collaborators built in main.
type Infrastructure struct {
	// BookLocker guards next-number changes. Nil means an in-process mutex.
	BookLocker locks.Locker
	Renderer   Renderer
	Submitter  ports.PrintSubmitter
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, infra Infrastructure) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	bookLocker := infra.BookLocker
	if bookLocker == nil {
		bookLocker = locks.NewKeyedMutex()
	}

	container.Allocator = NewLeafAllocator(repos.ChequeBookRepo, WithAllocatorLocker(bookLocker))
	container.ChequeBook = NewChequeBookService(repos.ChequeBookRepo, bookLocker)
	container.Template = NewTemplateService(repos.TemplateRepo, cfg.AssetDir, infra.Renderer.Engine.PageSize())
	container.Signature = NewSignatureService(repos.SignatureRepo)
	container.Queue = NewPrintQueueService(repos.QueueRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.VoidRangeRepo)

	batch := NewBatchPrintService(repos, container.Allocator, infra.Renderer, infra.Submitter,
		WithActiveSignatureID(cfg.ActiveSignatureID))
	container.Batch = batch
	container.Preview = batch

	return container
}
