package amountwords_test

import (
	"strings"
	"testing"

	"github.com/SscSPs/cheque_printer/internal/utils/amountwords"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRupees(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0.00", "Zero Rupees Only"},
		{"1", "One Rupees Only"},
		{"19", "Nineteen Rupees Only"},
		{"100", "One Hundred Rupees Only"},
		{"125000.00", "One Lakh Twenty Five Thousand Rupees Only"},
		{"10500.50", "Ten Thousand Five Hundred Rupees and Fifty Paise Only"},
		{"0.05", "Zero Rupees and Five Paise Only"},
		{"99999", "Ninety Nine Thousand Nine Hundred Ninety Nine Rupees Only"},
		{"1000000", "Ten Lakh Rupees Only"},
		{"12345678.90", "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Rupees and Ninety Paise Only"},
		{"1500000000", "One Hundred Fifty Crore Rupees Only"},
		{"10.999", "Eleven Rupees Only"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, amountwords.Rupees(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestRupees_Shape(t *testing.T) {
	words := amountwords.Rupees(decimal.RequireFromString("125000.00"))
	assert.True(t, strings.HasPrefix(words, "One Lakh Twenty Five Thousand Rupees Only"))

	words = amountwords.Rupees(decimal.RequireFromString("10500.50"))
	assert.True(t, strings.HasSuffix(words, "and Fifty Paise Only"))
	assert.NotContains(t, amountwords.Rupees(decimal.RequireFromString("250")), "Paise")
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "**10500.50/-", amountwords.Digits(decimal.RequireFromString("10500.5")))
	assert.Equal(t, "**0.00/-", amountwords.Digits(decimal.Zero))
	assert.Equal(t, "**125000.00/-", amountwords.Digits(decimal.NewFromInt(125000)))
}
