package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	ChequeBookRepo ChequeBookRepositoryFacade
	TemplateRepo   TemplateRepositoryFacade
	SignatureRepo  SignatureRepositoryFacade
	QueueRepo      PrintQueueRepositoryFacade
	LedgerRepo     LedgerRepositoryFacade
	VoidRangeRepo  VoidRangeRepositoryFacade
	PurchaseRepo   PurchaseRepositoryFacade
}
