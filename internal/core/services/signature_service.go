package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	portsrepo "github.com/SscSPs/cheque_printer/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cheque_printer/internal/core/ports/services"
	"github.com/SscSPs/cheque_printer/internal/dto"
	"github.com/google/uuid"
)

type signatureService struct {
	BaseService
	signatureRepo portsrepo.SignatureRepositoryFacade
}

// NewSignatureService creates a signature service.
func NewSignatureService(repo portsrepo.SignatureRepositoryFacade) portssvc.SignatureSvcFacade {
	return &signatureService{signatureRepo: repo}
}

var _ portssvc.SignatureSvcFacade = (*signatureService)(nil)

func (s *signatureService) CreateSignature(ctx context.Context, req dto.CreateSignatureRequest, userID string) (*domain.SignatureAsset, error) {
	now := time.Now()
	sig := domain.SignatureAsset{
		SignatureID:   uuid.NewString(),
		Name:          req.Name,
		Path:          req.Path,
		Opacity:       req.Opacity,
		Thickness:     req.Thickness,
		IsTransparent: req.IsTransparent,
		Scale:         req.Scale,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if sig.Opacity == 0 {
		sig.Opacity = 1
	}
	if sig.Thickness == 0 {
		sig.Thickness = 1
	}
	if sig.Scale == 0 {
		sig.Scale = 1
	}

	if err := s.signatureRepo.SaveSignature(ctx, sig); err != nil {
		s.LogError(ctx, err, "Failed to save signature", slog.String("name", sig.Name))
		return nil, fmt.Errorf("failed to create signature: %w", err)
	}
	s.LogInfo(ctx, "Signature created", slog.String("signature_id", sig.SignatureID))
	return &sig, nil
}

func (s *signatureService) GetSignature(ctx context.Context, signatureID string) (*domain.SignatureAsset, error) {
	sig, err := s.signatureRepo.FindSignatureByID(ctx, signatureID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get signature", slog.String("signature_id", signatureID))
		}
		return nil, err
	}
	return sig, nil
}

func (s *signatureService) ListSignatures(ctx context.Context) ([]domain.SignatureAsset, error) {
	sigs, err := s.signatureRepo.ListSignatures(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list signatures")
		return nil, fmt.Errorf("failed to list signatures: %w", err)
	}
	if sigs == nil {
		return []domain.SignatureAsset{}, nil
	}
	return sigs, nil
}
