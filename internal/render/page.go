// Package render lays cheques out on fixed-size pages and writes them as a
// single multi-page PDF document.
//
// Layout works in PDF points with the origin at the bottom-left corner of the
// page and y growing upwards. Every millimeter position read from a template
// (origin top-left, y growing downwards) goes through geometry.ToDeviceY.
package render

import (
	"strconv"
	"strings"
)

// ElementKind distinguishes the drawable elements of a page.
type ElementKind string

const (
	ElementText  ElementKind = "text"
	ElementImage ElementKind = "image"
)

// Color is an RGB text color.
type Color struct {
	R, G, B int
}

// Black is the fallback ink color.
var Black = Color{}

// ParseColor reads "#RRGGBB", falling back to black.
func ParseColor(hex string) Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return Black
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Black
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

// ImageData is an encoded PNG ready to be placed on a page.
type ImageData struct {
	Name     string // stable key, identical images share one name
	PNG      []byte
	WidthPx  int
	HeightPx int
}

// Element is one thing drawn on a page. X and Y are in points from the
// bottom-left corner: the text baseline start for text, the lower-left corner
// for images.
type Element struct {
	Kind        ElementKind
	Field       string
	X, Y        float64
	Text        string
	FontFamily  string
	FontStyle   string
	FontSize    float64
	Color       Color
	RotationDeg float64 // counter-clockwise about (X, Y)

	Image     *ImageData
	Width     float64
	Height    float64
	Opacity   float64
	BlendMode string
}

// Page is one cheque, laid out and ready to be written.
type Page struct {
	WidthPt    float64
	HeightPt   float64
	Background *ImageData // drawn full-bleed under everything, previews only
	Elements   []Element
}

// Field returns the elements generated for one template field.
func (p Page) Field(name string) []Element {
	var out []Element
	for _, el := range p.Elements {
		if el.Field == name {
			out = append(out, el)
		}
	}
	return out
}
