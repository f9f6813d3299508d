// Package amountwords spells cheque amounts using the Indian numbering
// convention (thousand, lakh, crore).
package amountwords

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// Rupees renders an amount as "<words> Rupees and <words> Paise Only".
// The paise clause is omitted when zero; a zero amount is "Zero Rupees Only".
func Rupees(amount decimal.Decimal) string {
	amount = amount.Abs().Round(2)
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Shift(2).IntPart()

	var b strings.Builder
	if rupees == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(Spell(rupees))
	}
	b.WriteString(" Rupees")
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(Spell(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

// Spell returns the words for a non-negative integer, "Zero" for zero.
func Spell(n int64) string {
	if n <= 0 {
		return "Zero"
	}
	return strings.Join(spell(n), " ")
}

func spell(n int64) []string {
	var words []string
	if crore := n / 10000000; crore > 0 {
		// amounts beyond 99 crore keep stacking in crores
		words = append(words, spell(crore)...)
		words = append(words, "Crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		words = append(words, belowHundred(lakh)...)
		words = append(words, "Lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		words = append(words, belowHundred(thousand)...)
		words = append(words, "Thousand")
		n %= 1000
	}
	if hundred := n / 100; hundred > 0 {
		words = append(words, ones[hundred], "Hundred")
		n %= 100
	}
	if n > 0 {
		words = append(words, belowHundred(n)...)
	}
	return words
}

func belowHundred(n int64) []string {
	if n < 20 {
		return []string{ones[n]}
	}
	if n%10 == 0 {
		return []string{tens[n/10]}
	}
	return []string{tens[n/10], ones[n%10]}
}

// Digits renders the amount box text, e.g. "**10500.50/-".
func Digits(amount decimal.Decimal) string {
	return "**" + amount.StringFixed(2) + "/-"
}
