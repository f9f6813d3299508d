package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/SscSPs/cheque_printer/internal/models"
	"github.com/SscSPs/cheque_printer/internal/utils/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateMapping_PreservesPositions(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	acPayee := geometry.Point{X: 12, Y: 12}
	tpl := domain.ChequeTemplate{
		TemplateID:   "tpl-1",
		BankName:     "HDFC",
		TemplateName: "CTS",
		Fields: domain.FieldPositions{
			Date:             geometry.Point{X: 160.25, Y: 8.5},
			Payee:            geometry.Point{X: 20, Y: 25},
			SignatureWidthMM: 38,
			AcPayee:          &acPayee,
		},
		DateDigitPositions: "1,2;3,4;5,6;7,8;9,10;11,12;13,14;15,16",
		FontSize:           11,
		MICR:               domain.MICRSettings{Enabled: true, Anchor: geometry.Point{X: 50, Y: 88}, Code: "400002000"},
		AuditFields:        domain.AuditFields{CreatedAt: now, CreatedBy: "u1", LastUpdatedAt: now, LastUpdatedBy: "u1"},
	}

	m, err := ToModelTemplate(tpl)
	require.NoError(t, err)
	back, err := ToDomainTemplate(m)
	require.NoError(t, err)
	assert.Equal(t, tpl, back)
}

func TestToDomainTemplate_BadJSON(t *testing.T) {
	_, err := ToDomainTemplate(models.ChequeTemplate{TemplateID: "x", Fields: []byte("{")})
	assert.Error(t, err)

	_, err = ToDomainTemplateSlice([]models.ChequeTemplate{{TemplateID: "x", Fields: []byte("nope")}})
	assert.Error(t, err)
}

func TestChequeBookMapping(t *testing.T) {
	m := models.ChequeBook{BookID: "b1", StartNumber: 100000, EndNumber: 100049, NextNumber: 100010, IsActive: true}
	d := ToDomainChequeBook(m)
	assert.Equal(t, int64(40), d.RemainingLeaves())
	assert.True(t, d.IsActive)
	assert.Equal(t, m, ToModelChequeBook(d))
	assert.Len(t, ToDomainChequeBookSlice([]models.ChequeBook{m, m}), 2)
}
