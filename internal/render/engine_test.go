package render

import (
	"testing"
	"time"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/SscSPs/cheque_printer/internal/utils/geometry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTemplate() domain.ChequeTemplate {
	return domain.ChequeTemplate{
		TemplateID:   "tpl-1",
		BankName:     "State Bank",
		TemplateName: "CTS-2010",
		FontFamily:   "Helvetica",
		FontSize:     11,
		FontColor:    "#102030",
		Fields: domain.FieldPositions{
			Date:             geometry.Point{X: 160, Y: 8},
			Payee:            geometry.Point{X: 20, Y: 25},
			AmountWords:      geometry.Point{X: 30, Y: 35},
			AmountDigits:     geometry.Point{X: 165, Y: 42},
			Signature:        geometry.Point{X: 150, Y: 60},
			SignatureWidthMM: 40,
		},
	}
}

func testCheque(number *int64) domain.RenderableCheque {
	return domain.RenderableCheque{
		ChequeRequest: domain.ChequeRequest{
			PayeeName: "Acme Traders",
			Amount:    decimal.RequireFromString("125000.00"),
			Date:      time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC),
		},
		ChequeNumber: number,
	}
}

func newTestEngine(t *testing.T, offset geometry.Offset) *Engine {
	t.Helper()
	e, err := NewEngine(Options{PageSize: geometry.DefaultPageSize, Offset: offset})
	require.NoError(t, err)
	return e
}

func TestLayout_FlipsVerticalAxis(t *testing.T) {
	e := newTestEngine(t, geometry.Offset{})
	tpl := testTemplate()
	tpl.Fields.Payee = geometry.Point{X: 20, Y: 10}

	page, err := e.Layout(testCheque(nil), tpl, nil)
	require.NoError(t, err)

	payee := page.Field(FieldPayee)
	require.Len(t, payee, 1)
	h := geometry.DefaultPageSize.HeightPoints()
	// 10mm from the top edge, not 10mm from the bottom
	assert.InDelta(t, h-geometry.MMToPoints(10), payee[0].Y, 1e-9)
	assert.Greater(t, payee[0].Y, h/2)
	assert.InDelta(t, geometry.MMToPoints(20), payee[0].X, 1e-9)
}

func TestLayout_FieldsAndOrder(t *testing.T) {
	e := newTestEngine(t, geometry.Offset{})
	page, err := e.Layout(testCheque(nil), testTemplate(), nil)
	require.NoError(t, err)

	assert.InDelta(t, geometry.MMToPoints(206), page.WidthPt, 1e-9)
	assert.InDelta(t, geometry.MMToPoints(98), page.HeightPt, 1e-9)

	var order []string
	for _, el := range page.Elements {
		if len(order) == 0 || order[len(order)-1] != el.Field {
			order = append(order, el.Field)
		}
	}
	assert.Equal(t, []string{FieldDate, FieldPayee, FieldAmountWords, FieldAmountDigits}, order)

	assert.Equal(t, "Acme Traders", page.Field(FieldPayee)[0].Text)
	assert.Equal(t, "One Lakh Twenty Five Thousand Rupees Only", page.Field(FieldAmountWords)[0].Text)
	assert.Equal(t, "**125000.00/-", page.Field(FieldAmountDigits)[0].Text)
	assert.Equal(t, Color{R: 0x10, G: 0x20, B: 0x30}, page.Field(FieldPayee)[0].Color)
	assert.Empty(t, page.Field(FieldAcPayee))
	assert.Empty(t, page.Field(FieldMICR), "no MICR without a cheque number")
}

func TestLayout_DateDigits(t *testing.T) {
	e := newTestEngine(t, geometry.Offset{})
	h := geometry.DefaultPageSize.HeightPoints()

	t.Run("uniform spacing", func(t *testing.T) {
		page, err := e.Layout(testCheque(nil), testTemplate(), nil)
		require.NoError(t, err)
		digits := page.Field(FieldDate)
		require.Len(t, digits, 8)
		want := "07032024"
		for i, d := range digits {
			assert.Equal(t, want[i:i+1], d.Text)
			assert.InDelta(t, geometry.MMToPoints(160+float64(i)*geometry.DigitSpacingMM), d.X, 1e-9)
			assert.InDelta(t, h-geometry.MMToPoints(8), d.Y, 1e-9)
		}
	})

	t.Run("explicit positions are flipped per digit", func(t *testing.T) {
		tpl := testTemplate()
		tpl.DateDigitPositions = "150,9;155,9;161,9.5;166,9.5;172,9;177,9;182,9;187,9"
		page, err := e.Layout(testCheque(nil), tpl, nil)
		require.NoError(t, err)
		digits := page.Field(FieldDate)
		require.Len(t, digits, 8)
		assert.InDelta(t, geometry.MMToPoints(161), digits[2].X, 1e-9)
		assert.InDelta(t, h-geometry.MMToPoints(9.5), digits[2].Y, 1e-9)
		assert.InDelta(t, h-geometry.MMToPoints(9), digits[7].Y, 1e-9)
	})

	t.Run("malformed positions fail", func(t *testing.T) {
		tpl := testTemplate()
		tpl.DateDigitPositions = "1,2;3,4"
		_, err := e.Layout(testCheque(nil), tpl, nil)
		assert.Error(t, err)
	})
}

func TestLayout_CalibrationOffset(t *testing.T) {
	plain := newTestEngine(t, geometry.Offset{})
	shifted := newTestEngine(t, geometry.Offset{XMM: 1.5, YMM: 2})

	a, err := plain.Layout(testCheque(nil), testTemplate(), nil)
	require.NoError(t, err)
	b, err := shifted.Layout(testCheque(nil), testTemplate(), nil)
	require.NoError(t, err)

	pa, pb := a.Field(FieldPayee)[0], b.Field(FieldPayee)[0]
	assert.InDelta(t, geometry.MMToPoints(1.5), pb.X-pa.X, 1e-9)
	assert.InDelta(t, -geometry.MMToPoints(2), pb.Y-pa.Y, 1e-9)
}

func TestLayout_AcPayee(t *testing.T) {
	e := newTestEngine(t, geometry.Offset{})
	h := geometry.DefaultPageSize.HeightPoints()
	cheque := testCheque(nil)
	cheque.IsAcPayee = true

	page, err := e.Layout(cheque, testTemplate(), nil)
	require.NoError(t, err)
	stamp := page.Field(FieldAcPayee)
	require.Len(t, stamp, 1)
	assert.Equal(t, AcPayeeText, stamp[0].Text)
	assert.InDelta(t, AcPayeeRotationDeg, stamp[0].RotationDeg, 1e-9)
	assert.InDelta(t, geometry.MMToPoints(12), stamp[0].X, 1e-9)
	assert.InDelta(t, h-geometry.MMToPoints(12), stamp[0].Y, 1e-9)

	tpl := testTemplate()
	tpl.Fields.AcPayee = &geometry.Point{X: 30, Y: 5}
	page, err = e.Layout(cheque, tpl, nil)
	require.NoError(t, err)
	assert.InDelta(t, geometry.MMToPoints(30), page.Field(FieldAcPayee)[0].X, 1e-9)
}

func TestLayout_MICRClampedToBand(t *testing.T) {
	e := newTestEngine(t, geometry.Offset{})
	h := geometry.DefaultPageSize.HeightPoints()
	number := int64(100042)

	tests := []struct {
		name   string
		anchor float64
		wantMM float64
	}{
		{"too high", 20, 98 - 15.875},
		{"inside band", 88, 88},
		{"too low", 97, 98 - 4.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := testTemplate()
			tpl.MICR = domain.MICRSettings{Enabled: true, Anchor: geometry.Point{X: 50, Y: tt.anchor}, Code: "400002000"}
			page, err := e.Layout(testCheque(&number), tpl, nil)
			require.NoError(t, err)
			micr := page.Field(FieldMICR)
			require.Len(t, micr, 1)
			assert.Equal(t, "C100042C 400002000A", micr[0].Text)
			assert.Equal(t, "Courier", micr[0].FontFamily)
			assert.InDelta(t, h-geometry.MMToPoints(tt.wantMM), micr[0].Y, 1e-9)
		})
	}
}

func TestLayout_Signature(t *testing.T) {
	e := newTestEngine(t, geometry.Offset{})
	h := geometry.DefaultPageSize.HeightPoints()
	sig := &SignatureImage{
		Image:   &ImageData{Name: "sig", PNG: []byte{1}, WidthPx: 400, HeightPx: 100},
		Opacity: 0.8,
		Scale:   1,
	}

	page, err := e.Layout(testCheque(nil), testTemplate(), sig)
	require.NoError(t, err)
	els := page.Field(FieldSignature)
	require.Len(t, els, 1)
	el := els[0]

	// 40mm wide at a 4:1 aspect ratio is 10mm tall; its top edge sits at 60mm
	assert.InDelta(t, geometry.MMToPoints(40), el.Width, 1e-9)
	assert.InDelta(t, geometry.MMToPoints(10), el.Height, 1e-9)
	assert.InDelta(t, h-geometry.MMToPoints(70), el.Y, 1e-9)
	assert.InDelta(t, h-geometry.MMToPoints(60), el.Y+el.Height, 1e-9)
	assert.Equal(t, "Multiply", el.BlendMode)
	assert.InDelta(t, 0.8, el.Opacity, 1e-9)
}

func TestNewEngine_RejectsInvalidPage(t *testing.T) {
	_, err := NewEngine(Options{PageSize: geometry.PageSize{WidthMM: -1, HeightMM: 98}})
	assert.ErrorIs(t, err, geometry.ErrInvalidDimensions)
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, Color{R: 255, G: 0, B: 128}, ParseColor("#FF0080"))
	assert.Equal(t, Black, ParseColor("blue"))
	assert.Equal(t, Black, ParseColor(""))
}
