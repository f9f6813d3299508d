package render

import (
	"fmt"
	"math"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/SscSPs/cheque_printer/internal/utils/amountwords"
	"github.com/SscSPs/cheque_printer/internal/utils/geometry"
)

// Field names used on page elements.
const (
	FieldDate         = "date"
	FieldPayee        = "payee"
	FieldAmountWords  = "amount_words"
	FieldAmountDigits = "amount_digits"
	FieldAcPayee      = "ac_payee"
	FieldSignature    = "signature"
	FieldMICR         = "micr"
)

const (
	// AcPayeeText is the restrictive crossing stamp.
	AcPayeeText = "A/C PAYEE ONLY"
	// AcPayeeRotationDeg tilts the stamp across the top-left corner.
	AcPayeeRotationDeg = 15.0

	// MICR band measured from the top edge: [height-15.875, height-4.5] mm.
	micrBandTopFromBottomMM    = 15.875
	micrBandBottomFromBottomMM = 4.5

	defaultSignatureWidthMM = 40.0
	defaultFontFamily       = "Helvetica"
	defaultFontSize         = 12.0
	micrFontSize            = 12.0
)

// DefaultAcPayeeAnchor is used when a template does not place the stamp.
var DefaultAcPayeeAnchor = geometry.Point{X: 12, Y: 12}

// Options fixes the physical page and printer calibration.
type Options struct {
	PageSize       geometry.PageSize
	Offset         geometry.Offset
	DigitSpacingMM float64
}

// Engine lays cheques out. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	opts Options
}

// NewEngine validates opts and fills defaults.
func NewEngine(opts Options) (*Engine, error) {
	if opts.PageSize == (geometry.PageSize{}) {
		opts.PageSize = geometry.DefaultPageSize
	}
	if !opts.PageSize.Valid() {
		return nil, fmt.Errorf("%w: page %.2fx%.2fmm", geometry.ErrInvalidDimensions, opts.PageSize.WidthMM, opts.PageSize.HeightMM)
	}
	if opts.DigitSpacingMM <= 0 {
		opts.DigitSpacingMM = geometry.DigitSpacingMM
	}
	return &Engine{opts: opts}, nil
}

// PageSize returns the fixed physical page size.
func (e *Engine) PageSize() geometry.PageSize { return e.opts.PageSize }

// Layout produces one page for one cheque. sig may be nil, in which case no
// signature is drawn.
func (e *Engine) Layout(cheque domain.RenderableCheque, tpl domain.ChequeTemplate, sig *SignatureImage) (Page, error) {
	page := Page{
		WidthPt:  e.opts.PageSize.WidthPoints(),
		HeightPt: e.opts.PageSize.HeightPoints(),
	}

	font := tpl.FontFamily
	if font == "" {
		font = defaultFontFamily
	}
	size := tpl.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	color := ParseColor(tpl.FontColor)
	text := func(field, s string, at geometry.Point) Element {
		x, y := e.opts.PageSize.ToDevice(at, e.opts.Offset)
		return Element{Kind: ElementText, Field: field, X: x, Y: y, Text: s, FontFamily: font, FontSize: size, Color: color}
	}

	explicit, err := tpl.DigitPositions()
	if err != nil {
		return Page{}, fmt.Errorf("template %s: %w", tpl.TemplateID, err)
	}
	digits, err := geometry.DateDigitLayout(geometry.FormatDate(cheque.Date), tpl.Fields.Date, explicit, e.opts.DigitSpacingMM)
	if err != nil {
		return Page{}, err
	}
	for _, d := range digits {
		page.Elements = append(page.Elements, text(FieldDate, d.Digit, d.Position))
	}

	page.Elements = append(page.Elements,
		text(FieldPayee, cheque.PayeeName, tpl.Fields.Payee),
		text(FieldAmountWords, amountwords.Rupees(cheque.Amount), tpl.Fields.AmountWords),
		text(FieldAmountDigits, amountwords.Digits(cheque.Amount), tpl.Fields.AmountDigits),
	)

	if cheque.IsAcPayee {
		anchor := DefaultAcPayeeAnchor
		if tpl.Fields.AcPayee != nil {
			anchor = *tpl.Fields.AcPayee
		}
		stamp := text(FieldAcPayee, AcPayeeText, anchor)
		stamp.FontStyle = "B"
		stamp.RotationDeg = AcPayeeRotationDeg
		page.Elements = append(page.Elements, stamp)
	}

	if sig != nil && sig.Image != nil && sig.Image.WidthPx > 0 && sig.Image.HeightPx > 0 {
		page.Elements = append(page.Elements, e.signatureElement(tpl, sig))
	}

	if tpl.MICR.Enabled && cheque.ChequeNumber != nil {
		anchor := tpl.MICR.Anchor
		anchor.Y = e.ClampMICRY(anchor.Y)
		line := text(FieldMICR, MICRLine(*cheque.ChequeNumber, tpl.MICR.Code), anchor)
		line.FontFamily = "Courier"
		line.FontSize = micrFontSize
		line.Color = Black
		page.Elements = append(page.Elements, line)
	}

	return page, nil
}

func (e *Engine) signatureElement(tpl domain.ChequeTemplate, sig *SignatureImage) Element {
	widthMM := tpl.Fields.SignatureWidthMM
	if widthMM <= 0 {
		widthMM = defaultSignatureWidthMM
	}
	widthMM *= sig.Scale
	heightMM := widthMM * float64(sig.Image.HeightPx) / float64(sig.Image.WidthPx)

	// anchor is the top-left corner of the image; elements store the lower-left
	lowerLeft := geometry.Point{X: tpl.Fields.Signature.X, Y: tpl.Fields.Signature.Y + heightMM}
	x, y := e.opts.PageSize.ToDevice(lowerLeft, e.opts.Offset)
	return Element{
		Kind:      ElementImage,
		Field:     FieldSignature,
		X:         x,
		Y:         y,
		Image:     sig.Image,
		Width:     geometry.MMToPoints(widthMM),
		Height:    geometry.MMToPoints(heightMM),
		Opacity:   sig.Opacity,
		BlendMode: "Multiply",
	}
}

// ClampMICRY forces a MICR line's top-origin y into the band readers expect.
func (e *Engine) ClampMICRY(yMM float64) float64 {
	h := e.opts.PageSize.HeightMM
	return math.Min(math.Max(yMM, h-micrBandTopFromBottomMM), h-micrBandBottomFromBottomMM)
}

// MICRLine formats the cheque number between on-us symbols followed by the
// bank code. Core PDF fonts have no E-13B glyphs, so the symbols use the
// conventional "C" and "A" stand-ins.
func MICRLine(chequeNumber int64, code string) string {
	line := fmt.Sprintf("C%06dC", chequeNumber)
	if code != "" {
		line += " " + code + "A"
	}
	return line
}

// WithBackground returns a copy of page that draws bg under the fields.
func WithBackground(page Page, bg *ImageData) Page {
	page.Background = bg
	return page
}
