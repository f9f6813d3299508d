package services

import (
	"context"
	"io"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/SscSPs/cheque_printer/internal/dto"
)

// TemplateReaderSvc defines read operations for cheque templates
type TemplateReaderSvc interface {
	GetTemplate(ctx context.Context, templateID string) (*domain.ChequeTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.ChequeTemplate, error)
}

// TemplateWriterSvc defines write operations for cheque templates
type TemplateWriterSvc interface {
	CreateTemplate(ctx context.Context, req dto.TemplateRequest, userID string) (*domain.ChequeTemplate, error)
	// UpdateTemplate replaces a template's layout. Templates already used
	// for printing are immutable.
	UpdateTemplate(ctx context.Context, templateID string, req dto.TemplateRequest, userID string) (*domain.ChequeTemplate, error)
	// ApplyCanvasLayout converts designer-canvas pixel positions to millimeters and stores them.
	ApplyCanvasLayout(ctx context.Context, templateID string, req dto.CanvasLayoutRequest, userID string) (*domain.ChequeTemplate, error)
	// UploadBackground stores a scanned cheque image for the template.
	UploadBackground(ctx context.Context, templateID string, filename string, r io.Reader, userID string) (*domain.ChequeTemplate, error)
}

// TemplateSvcFacade combines all template service interfaces
type TemplateSvcFacade interface {
	TemplateReaderSvc
	TemplateWriterSvc
}

// SignatureSvcFacade manages signature assets.
type SignatureSvcFacade interface {
	CreateSignature(ctx context.Context, req dto.CreateSignatureRequest, userID string) (*domain.SignatureAsset, error)
	GetSignature(ctx context.Context, signatureID string) (*domain.SignatureAsset, error)
	ListSignatures(ctx context.Context) ([]domain.SignatureAsset, error)
}
