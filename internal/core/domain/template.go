package domain

import (
	"errors"

	"github.com/SscSPs/cheque_printer/internal/utils/geometry"
)

// FieldPositions holds the persisted, canonical millimeter anchors of a template.
type FieldPositions struct {
	Date             geometry.Point `json:"date"`
	Payee            geometry.Point `json:"payee"`
	AmountWords      geometry.Point `json:"amountWords"`
	AmountDigits     geometry.Point `json:"amountDigits"`
	Signature        geometry.Point `json:"signature"`
	SignatureWidthMM float64        `json:"signatureWidthMM"`
	// SignatureImagePath is a static signature used when no signature asset exists.
	SignatureImagePath string          `json:"signatureImagePath,omitempty"`
	AcPayee            *geometry.Point `json:"acPayee,omitempty"`
}

// MICRSettings controls the optional MICR line.
type MICRSettings struct {
	Enabled bool           `json:"enabled"`
	Anchor  geometry.Point `json:"anchor"`
	Code    string         `json:"code"` // sort code / account suffix printed after the cheque number
}

// ChequeTemplate is the bank- and format-specific layout for one cheque design.
type ChequeTemplate struct {
	TemplateID          string         `json:"templateID" db:"template_id"`
	BankName            string         `json:"bankName" db:"bank_name"`
	TemplateName        string         `json:"templateName" db:"template_name"`
	BackgroundImagePath string         `json:"backgroundImagePath" db:"background_image_path"`
	ImageWidthPx        int            `json:"imageWidthPx" db:"image_width_px"`
	ImageHeightPx       int            `json:"imageHeightPx" db:"image_height_px"`
	Fields              FieldPositions `json:"fields" db:"fields"`
	DateDigitPositions  string         `json:"dateDigitPositions" db:"date_digit_positions"` // "x,y;x,y;..." or empty
	FontFamily          string         `json:"fontFamily" db:"font_family"`
	FontSize            float64        `json:"fontSize" db:"font_size"`
	FontColor           string         `json:"fontColor" db:"font_color"` // #RRGGBB
	MICR                MICRSettings   `json:"micr" db:"micr"`
	AuditFields
}

// Validate checks the template before persisting.
func (t ChequeTemplate) Validate() error {
	if t.BankName == "" || t.TemplateName == "" {
		return errors.New("bank name and template name are required")
	}
	if t.FontSize <= 0 {
		return errors.New("font size must be positive")
	}
	if _, err := geometry.ParseDigitPositions(t.DateDigitPositions); err != nil {
		return err
	}
	return nil
}

// DigitPositions parses the explicit per-digit date positions, if any.
func (t ChequeTemplate) DigitPositions() ([]geometry.Point, error) {
	return geometry.ParseDigitPositions(t.DateDigitPositions)
}

// SignatureAsset is an ink signature image used by the renderer.
type SignatureAsset struct {
	SignatureID   string  `json:"signatureID" db:"signature_id"`
	Name          string  `json:"name" db:"name"`
	Path          string  `json:"path" db:"path"`
	Opacity       float64 `json:"opacity" db:"opacity"`     // 0..1
	Thickness     float64 `json:"thickness" db:"thickness"` // 1 = unchanged, >1 darkens strokes
	IsTransparent bool    `json:"isTransparent" db:"is_transparent"`
	Scale         float64 `json:"scale" db:"scale"`
	AuditFields
}
