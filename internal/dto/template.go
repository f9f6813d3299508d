package dto

import (
	"github.com/SscSPs/cheque_printer/internal/core/domain"
)

// TemplateRequest defines the data needed to create or replace a template.
// Positions are millimeters from the top-left corner of the cheque.
type TemplateRequest struct {
	BankName           string                `json:"bankName" binding:"required"`
	TemplateName       string                `json:"templateName" binding:"required"`
	Fields             domain.FieldPositions `json:"fields"`
	DateDigitPositions string                `json:"dateDigitPositions"`
	FontFamily         string                `json:"fontFamily" binding:"omitempty,oneof=Helvetica Times Courier Arial"`
	FontSize           float64               `json:"fontSize" binding:"omitempty,gt=0,lte=72"`
	FontColor          string                `json:"fontColor" binding:"omitempty,hexcolor"`
	MICR               domain.MICRSettings   `json:"micr"`
}

// CanvasPoint is a position on the template designer canvas, in pixels.
type CanvasPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CanvasLayoutRequest carries field positions as placed on a design canvas of
// the given size. The server converts them to millimeters.
type CanvasLayoutRequest struct {
	CanvasWidthPx    float64      `json:"canvasWidthPx" binding:"required,gt=0"`
	CanvasHeightPx   float64      `json:"canvasHeightPx" binding:"required,gt=0"`
	Date             CanvasPoint  `json:"date"`
	Payee            CanvasPoint  `json:"payee"`
	AmountWords      CanvasPoint  `json:"amountWords"`
	AmountDigits     CanvasPoint  `json:"amountDigits"`
	Signature        CanvasPoint  `json:"signature"`
	SignatureWidthPx float64      `json:"signatureWidthPx"`
	AcPayee          *CanvasPoint `json:"acPayee,omitempty"`
	MICR             *CanvasPoint `json:"micr,omitempty"`
}
