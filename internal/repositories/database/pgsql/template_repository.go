package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	portsrepo "github.com/SscSPs/cheque_printer/internal/core/ports/repositories"
	"github.com/SscSPs/cheque_printer/internal/models"
	"github.com/SscSPs/cheque_printer/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTemplateRepository struct {
	BaseRepository
}

func newPgxTemplateRepository(pool *pgxpool.Pool) portsrepo.TemplateRepositoryFacade {
	return &PgxTemplateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TemplateRepositoryFacade = (*PgxTemplateRepository)(nil)

var FULL_TEMPLATE_SELECT_QUERY = `
SELECT
	template_id, bank_name, template_name, background_image_path, image_width_px, image_height_px,
	fields, date_digit_positions, font_family, font_size, font_color, micr,
	created_at, created_by, last_updated_at, last_updated_by
FROM cheque_templates
`

func (r *PgxTemplateRepository) getTemplates(ctx context.Context, filterQuery string, args ...any) ([]domain.ChequeTemplate, error) {
	rows, err := r.Pool.Query(ctx, FULL_TEMPLATE_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query cheque templates", err)
	}
	defer rows.Close()
	modelTemplates, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ChequeTemplate])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect cheque template rows", err)
	}
	return mapping.ToDomainTemplateSlice(modelTemplates)
}

// FindTemplateByID retrieves a template by ID.
func (r *PgxTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.ChequeTemplate, error) {
	templates, err := r.getTemplates(ctx, "WHERE template_id = $1", templateID)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: template %s", apperrors.ErrNotFound, templateID)
	}
	return &templates[0], nil
}

// ListTemplates lists templates by bank and name.
func (r *PgxTemplateRepository) ListTemplates(ctx context.Context) ([]domain.ChequeTemplate, error) {
	return r.getTemplates(ctx, "ORDER BY bank_name, template_name")
}

// IsTemplateReferenced reports whether any ledger entry was printed with the template.
func (r *PgxTemplateRepository) IsTemplateReferenced(ctx context.Context, templateID string) (bool, error) {
	var referenced bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cheque_ledger WHERE template_id = $1);`, templateID).Scan(&referenced)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check template references", err)
	}
	return referenced, nil
}

// SaveTemplate inserts a template.
func (r *PgxTemplateRepository) SaveTemplate(ctx context.Context, tpl domain.ChequeTemplate) error {
	m, err := mapping.ToModelTemplate(tpl)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO cheque_templates (
			template_id, bank_name, template_name, background_image_path, image_width_px, image_height_px,
			fields, date_digit_positions, font_family, font_size, font_color, micr,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.TemplateID, m.BankName, m.TemplateName, m.BackgroundImagePath, m.ImageWidthPx, m.ImageHeightPx,
		m.Fields, m.DateDigitPositions, m.FontFamily, m.FontSize, m.FontColor, m.MICR,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: template %s/%s", apperrors.ErrDuplicate, m.BankName, m.TemplateName)
		}
		return apperrors.NewAppError(500, "failed to insert cheque template "+m.TemplateID, err)
	}
	return nil
}

// UpdateTemplate overwrites every editable column of a template.
func (r *PgxTemplateRepository) UpdateTemplate(ctx context.Context, tpl domain.ChequeTemplate) error {
	m, err := mapping.ToModelTemplate(tpl)
	if err != nil {
		return err
	}
	query := `
		UPDATE cheque_templates
		SET bank_name = $2, template_name = $3, background_image_path = $4, image_width_px = $5, image_height_px = $6,
			fields = $7, date_digit_positions = $8, font_family = $9, font_size = $10, font_color = $11, micr = $12,
			last_updated_at = $13, last_updated_by = $14
		WHERE template_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.TemplateID, m.BankName, m.TemplateName, m.BackgroundImagePath, m.ImageWidthPx, m.ImageHeightPx,
		m.Fields, m.DateDigitPositions, m.FontFamily, m.FontSize, m.FontColor, m.MICR,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: template %s/%s", apperrors.ErrDuplicate, m.BankName, m.TemplateName)
		}
		return apperrors.NewAppError(500, "failed to update cheque template "+m.TemplateID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: template %s", apperrors.ErrNotFound, m.TemplateID)
	}
	return nil
}

type PgxSignatureRepository struct {
	BaseRepository
}

func newPgxSignatureRepository(pool *pgxpool.Pool) portsrepo.SignatureRepositoryFacade {
	return &PgxSignatureRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SignatureRepositoryFacade = (*PgxSignatureRepository)(nil)

const signatureSelect = `
SELECT signature_id, name, path, opacity, thickness, is_transparent, scale,
	created_at, created_by, last_updated_at, last_updated_by
FROM signatures
`

func (r *PgxSignatureRepository) getSignatures(ctx context.Context, filterQuery string, args ...any) ([]domain.SignatureAsset, error) {
	rows, err := r.Pool.Query(ctx, signatureSelect+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query signatures", err)
	}
	defer rows.Close()
	sigs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.SignatureAsset])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect signature rows", err)
	}
	return sigs, nil
}

// FindSignatureByID retrieves a signature by ID.
func (r *PgxSignatureRepository) FindSignatureByID(ctx context.Context, signatureID string) (*domain.SignatureAsset, error) {
	sigs, err := r.getSignatures(ctx, "WHERE signature_id = $1", signatureID)
	if err != nil {
		return nil, err
	}
	if len(sigs) == 0 {
		return nil, fmt.Errorf("%w: signature %s", apperrors.ErrNotFound, signatureID)
	}
	return &sigs[0], nil
}

// ListSignatures lists signatures oldest first; the first one is the fallback.
func (r *PgxSignatureRepository) ListSignatures(ctx context.Context) ([]domain.SignatureAsset, error) {
	return r.getSignatures(ctx, "ORDER BY created_at, signature_id")
}

// SaveSignature inserts a signature asset.
func (r *PgxSignatureRepository) SaveSignature(ctx context.Context, sig domain.SignatureAsset) error {
	query := `
		INSERT INTO signatures (
			signature_id, name, path, opacity, thickness, is_transparent, scale,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		sig.SignatureID, sig.Name, sig.Path, sig.Opacity, sig.Thickness, sig.IsTransparent, sig.Scale,
		sig.CreatedAt, sig.CreatedBy, sig.LastUpdatedAt, sig.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: signature %s", apperrors.ErrDuplicate, sig.SignatureID)
		}
		return apperrors.NewAppError(500, "failed to insert signature "+sig.SignatureID, err)
	}
	return nil
}
