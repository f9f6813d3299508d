package repositories

import (
	"context"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
)

// TemplateReader defines read operations for cheque templates
type TemplateReader interface {
	FindTemplateByID(ctx context.Context, templateID string) (*domain.ChequeTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.ChequeTemplate, error)

	// IsTemplateReferenced reports whether any ledger entry was printed with the template.
	IsTemplateReferenced(ctx context.Context, templateID string) (bool, error)
}

// TemplateWriter defines write operations for cheque templates
type TemplateWriter interface {
	// SaveTemplate persists a new template; (bankName, templateName) must be unique.
	SaveTemplate(ctx context.Context, tpl domain.ChequeTemplate) error
	UpdateTemplate(ctx context.Context, tpl domain.ChequeTemplate) error
}

// TemplateRepositoryFacade combines all template repository interfaces
type TemplateRepositoryFacade interface {
	TemplateReader
	TemplateWriter
}

// SignatureRepositoryFacade stores signature assets.
type SignatureRepositoryFacade interface {
	FindSignatureByID(ctx context.Context, signatureID string) (*domain.SignatureAsset, error)

	// ListSignatures returns signatures oldest first.
	ListSignatures(ctx context.Context) ([]domain.SignatureAsset, error)
	SaveSignature(ctx context.Context, sig domain.SignatureAsset) error
}
