package geometry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateDigits is the number of characters in a DDMMYYYY date stamp.
const DateDigits = 8

// DigitSpacingMM is the uniform distance between date boxes on standard MICR cheques.
const DigitSpacingMM = 5.5

// PlacedDigit is one date character at its physical position.
type PlacedDigit struct {
	Digit    string
	Position Point
}

// FormatDate renders a date as DDMMYYYY.
func FormatDate(t time.Time) string {
	return t.Format("02012006")
}

// ParseDigitPositions parses a semicolon-delimited "x,y;x,y;..." list of mm pairs.
// An empty string means no explicit positions. Anything else must hold exactly 8 pairs.
func ParseDigitPositions(raw string) ([]Point, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(strings.TrimSuffix(raw, ";"), ";")
	if len(parts) != DateDigits {
		return nil, fmt.Errorf("expected %d date digit positions, got %d", DateDigits, len(parts))
	}
	points := make([]Point, 0, DateDigits)
	for i, part := range parts {
		xy := strings.Split(strings.TrimSpace(part), ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("date digit position %d: expected x,y got %q", i, part)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("date digit position %d: invalid x: %w", i, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("date digit position %d: invalid y: %w", i, err)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

// FormatDigitPositions is the inverse of ParseDigitPositions.
func FormatDigitPositions(points []Point) string {
	if len(points) == 0 {
		return ""
	}
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(p.Y, 'f', -1, 64)
	}
	return strings.Join(parts, ";")
}

// DateDigitLayout places each character of an 8-digit date. Explicit positions,
// when present, are used verbatim; otherwise digit i sits at anchor.X + i*spacing.
func DateDigitLayout(date string, anchor Point, explicit []Point, spacing float64) ([]PlacedDigit, error) {
	if len(date) != DateDigits {
		return nil, fmt.Errorf("date %q must have %d characters", date, DateDigits)
	}
	for _, r := range date {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("date %q must be numeric DDMMYYYY", date)
		}
	}
	if len(explicit) != 0 && len(explicit) != DateDigits {
		return nil, fmt.Errorf("expected %d explicit date positions, got %d", DateDigits, len(explicit))
	}
	digits := make([]PlacedDigit, DateDigits)
	for i := 0; i < DateDigits; i++ {
		pos := Point{X: anchor.X + float64(i)*spacing, Y: anchor.Y}
		if len(explicit) == DateDigits {
			pos = explicit[i]
		}
		digits[i] = PlacedDigit{Digit: date[i : i+1], Position: pos}
	}
	return digits, nil
}
