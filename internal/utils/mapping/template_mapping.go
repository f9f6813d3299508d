package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/SscSPs/cheque_printer/internal/models"
)

// ToModelTemplate converts a domain template, encoding the JSONB columns.
func ToModelTemplate(d domain.ChequeTemplate) (models.ChequeTemplate, error) {
	fields, err := json.Marshal(d.Fields)
	if err != nil {
		return models.ChequeTemplate{}, fmt.Errorf("encode template fields: %w", err)
	}
	micr, err := json.Marshal(d.MICR)
	if err != nil {
		return models.ChequeTemplate{}, fmt.Errorf("encode template micr settings: %w", err)
	}
	return models.ChequeTemplate{
		TemplateID:          d.TemplateID,
		BankName:            d.BankName,
		TemplateName:        d.TemplateName,
		BackgroundImagePath: d.BackgroundImagePath,
		ImageWidthPx:        d.ImageWidthPx,
		ImageHeightPx:       d.ImageHeightPx,
		Fields:              fields,
		DateDigitPositions:  d.DateDigitPositions,
		FontFamily:          d.FontFamily,
		FontSize:            d.FontSize,
		FontColor:           d.FontColor,
		MICR:                micr,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainTemplate converts a model template, decoding the JSONB columns.
func ToDomainTemplate(m models.ChequeTemplate) (domain.ChequeTemplate, error) {
	d := domain.ChequeTemplate{
		TemplateID:          m.TemplateID,
		BankName:            m.BankName,
		TemplateName:        m.TemplateName,
		BackgroundImagePath: m.BackgroundImagePath,
		ImageWidthPx:        m.ImageWidthPx,
		ImageHeightPx:       m.ImageHeightPx,
		DateDigitPositions:  m.DateDigitPositions,
		FontFamily:          m.FontFamily,
		FontSize:            m.FontSize,
		FontColor:           m.FontColor,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
	if err := json.Unmarshal(m.Fields, &d.Fields); err != nil {
		return domain.ChequeTemplate{}, fmt.Errorf("decode fields of template %s: %w", m.TemplateID, err)
	}
	if len(m.MICR) > 0 {
		if err := json.Unmarshal(m.MICR, &d.MICR); err != nil {
			return domain.ChequeTemplate{}, fmt.Errorf("decode micr settings of template %s: %w", m.TemplateID, err)
		}
	}
	return d, nil
}

// ToDomainTemplateSlice converts model templates, stopping at the first bad row.
func ToDomainTemplateSlice(ms []models.ChequeTemplate) ([]domain.ChequeTemplate, error) {
	ds := make([]domain.ChequeTemplate, len(ms))
	for i, m := range ms {
		d, err := ToDomainTemplate(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
