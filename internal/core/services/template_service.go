package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	portsrepo "github.com/SscSPs/cheque_printer/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cheque_printer/internal/core/ports/services"
	"github.com/SscSPs/cheque_printer/internal/dto"
	"github.com/SscSPs/cheque_printer/internal/render"
	"github.com/SscSPs/cheque_printer/internal/utils/geometry"
	"github.com/google/uuid"
)

const (
	templateAssetSubdir = "templates"
	defaultFontFamily   = "Helvetica"
	defaultFontSize     = 12.0
	defaultFontColor    = "#000000"
)

var allowedImageExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// templateService implements the TemplateSvcFacade interface
type templateService struct {
	BaseService
	templateRepo portsrepo.TemplateRepositoryFacade
	assetDir     string
	pageSize     geometry.PageSize
}

// NewTemplateService creates a template service storing uploads under assetDir.
func NewTemplateService(repo portsrepo.TemplateRepositoryFacade, assetDir string, pageSize geometry.PageSize) portssvc.TemplateSvcFacade {
	return &templateService{templateRepo: repo, assetDir: assetDir, pageSize: pageSize}
}

var _ portssvc.TemplateSvcFacade = (*templateService)(nil)

func applyTemplateRequest(tpl *domain.ChequeTemplate, req dto.TemplateRequest) {
	tpl.BankName = req.BankName
	tpl.TemplateName = req.TemplateName
	tpl.Fields = req.Fields
	tpl.DateDigitPositions = req.DateDigitPositions
	tpl.FontFamily = req.FontFamily
	tpl.FontSize = req.FontSize
	tpl.FontColor = req.FontColor
	tpl.MICR = req.MICR

	if tpl.FontFamily == "" {
		tpl.FontFamily = defaultFontFamily
	}
	if tpl.FontSize <= 0 {
		tpl.FontSize = defaultFontSize
	}
	if tpl.FontColor == "" {
		tpl.FontColor = defaultFontColor
	}
}

func (s *templateService) CreateTemplate(ctx context.Context, req dto.TemplateRequest, userID string) (*domain.ChequeTemplate, error) {
	now := time.Now()
	tpl := domain.ChequeTemplate{
		TemplateID: uuid.NewString(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	applyTemplateRequest(&tpl, req)
	if err := tpl.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.templateRepo.SaveTemplate(ctx, tpl); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save template", slog.String("bank_name", tpl.BankName), slog.String("template_name", tpl.TemplateName))
		}
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	s.LogInfo(ctx, "Template created", slog.String("template_id", tpl.TemplateID))
	return &tpl, nil
}

func (s *templateService) GetTemplate(ctx context.Context, templateID string) (*domain.ChequeTemplate, error) {
	tpl, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get template", slog.String("template_id", templateID))
		}
		return nil, err
	}
	return tpl, nil
}

func (s *templateService) ListTemplates(ctx context.Context) ([]domain.ChequeTemplate, error) {
	tpls, err := s.templateRepo.ListTemplates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list templates")
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if tpls == nil {
		return []domain.ChequeTemplate{}, nil
	}
	return tpls, nil
}

// mutable loads a template and refuses it once a ledger entry references it,
// so reprints of old cheques can always be explained by the stored layout.
func (s *templateService) mutable(ctx context.Context, templateID string) (*domain.ChequeTemplate, error) {
	tpl, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	used, err := s.templateRepo.IsTemplateReferenced(ctx, templateID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check template usage", slog.String("template_id", templateID))
		return nil, fmt.Errorf("failed to check template usage: %w", err)
	}
	if used {
		return nil, apperrors.NewConflictError(fmt.Sprintf("template %s has printed cheques; create a new template instead", templateID))
	}
	return tpl, nil
}

func (s *templateService) save(ctx context.Context, tpl *domain.ChequeTemplate, userID string) (*domain.ChequeTemplate, error) {
	if err := tpl.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	tpl.LastUpdatedAt = time.Now()
	tpl.LastUpdatedBy = userID
	if err := s.templateRepo.UpdateTemplate(ctx, *tpl); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update template", slog.String("template_id", tpl.TemplateID))
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	s.LogInfo(ctx, "Template updated", slog.String("template_id", tpl.TemplateID))
	return tpl, nil
}

func (s *templateService) UpdateTemplate(ctx context.Context, templateID string, req dto.TemplateRequest, userID string) (*domain.ChequeTemplate, error) {
	tpl, err := s.mutable(ctx, templateID)
	if err != nil {
		return nil, err
	}
	applyTemplateRequest(tpl, req)
	return s.save(ctx, tpl, userID)
}

func (s *templateService) ApplyCanvasLayout(ctx context.Context, templateID string, req dto.CanvasLayoutRequest, userID string) (*domain.ChequeTemplate, error) {
	tpl, err := s.mutable(ctx, templateID)
	if err != nil {
		return nil, err
	}
	mapper, err := geometry.NewCoordinateMapper(s.pageSize.WidthMM, s.pageSize.HeightMM, req.CanvasWidthPx, req.CanvasHeightPx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	toMM := func(p dto.CanvasPoint) geometry.Point { return mapper.PointPxToMM(p.X, p.Y) }

	tpl.Fields.Date = toMM(req.Date)
	tpl.Fields.Payee = toMM(req.Payee)
	tpl.Fields.AmountWords = toMM(req.AmountWords)
	tpl.Fields.AmountDigits = toMM(req.AmountDigits)
	tpl.Fields.Signature = toMM(req.Signature)
	if req.SignatureWidthPx > 0 {
		tpl.Fields.SignatureWidthMM = mapper.PxToMM(req.SignatureWidthPx)
	}
	tpl.Fields.AcPayee = nil
	if req.AcPayee != nil {
		p := toMM(*req.AcPayee)
		tpl.Fields.AcPayee = &p
	}
	if req.MICR != nil {
		tpl.MICR.Anchor = toMM(*req.MICR)
	}
	return s.save(ctx, tpl, userID)
}

func (s *templateService) UploadBackground(ctx context.Context, templateID string, filename string, r io.Reader, userID string) (*domain.ChequeTemplate, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExt[ext] {
		return nil, fmt.Errorf("%w: background must be a PNG or JPEG image", apperrors.ErrValidation)
	}
	tpl, err := s.mutable(ctx, templateID)
	if err != nil {
		return nil, err
	}

	rel := filepath.Join(templateAssetSubdir, templateID+ext)
	dst := filepath.Join(s.assetDir, rel)
	tmp, err := writeTempFile(filepath.Dir(dst), ext, r)
	if err != nil {
		s.LogError(ctx, err, "Failed to store template background", slog.String("template_id", templateID))
		return nil, apperrors.NewAppError(500, "failed to store template background", err)
	}
	defer os.Remove(tmp)

	// the upload is decoded before it replaces the current background
	w, h, err := render.ImageSize(tmp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if err := os.Rename(tmp, dst); err != nil {
		s.LogError(ctx, err, "Failed to store template background", slog.String("template_id", templateID))
		return nil, apperrors.NewAppError(500, "failed to store template background", err)
	}
	tpl.BackgroundImagePath = rel
	tpl.ImageWidthPx = w
	tpl.ImageHeightPx = h
	return s.save(ctx, tpl, userID)
}

// writeTempFile copies r into a new file in dir and returns its path. The
// caller renames or removes it.
func writeTempFile(dir, ext string, r io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(dir, ".upload-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
