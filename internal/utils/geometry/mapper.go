package geometry

import (
	"errors"
	"fmt"
)

// ErrInvalidDimensions is returned when a mapper is built from non-positive sizes.
var ErrInvalidDimensions = errors.New("physical and image dimensions must be positive")

// CoordinateMapper converts between design-canvas pixels and physical millimeters
// for one uploaded template image. Millimeters are canonical; pixel and
// percentage values are derived for display only.
type CoordinateMapper struct {
	physicalWidthMM  float64
	physicalHeightMM float64
	imageWidthPx     float64
	imageHeightPx    float64
	scale            float64 // mm per pixel
}

// NewCoordinateMapper computes the mm-per-pixel scale once from the widths.
func NewCoordinateMapper(physicalWidthMM, physicalHeightMM, imageWidthPx, imageHeightPx float64) (*CoordinateMapper, error) {
	if physicalWidthMM <= 0 || physicalHeightMM <= 0 || imageWidthPx <= 0 || imageHeightPx <= 0 {
		return nil, fmt.Errorf("%w: physical %.3fx%.3fmm, image %.0fx%.0fpx", ErrInvalidDimensions,
			physicalWidthMM, physicalHeightMM, imageWidthPx, imageHeightPx)
	}
	return &CoordinateMapper{
		physicalWidthMM:  physicalWidthMM,
		physicalHeightMM: physicalHeightMM,
		imageWidthPx:     imageWidthPx,
		imageHeightPx:    imageHeightPx,
		scale:            physicalWidthMM / imageWidthPx,
	}, nil
}

// Scale returns millimeters per pixel.
func (m *CoordinateMapper) Scale() float64 { return m.scale }

// PxToMM converts a canvas pixel distance to millimeters.
func (m *CoordinateMapper) PxToMM(px float64) float64 { return px * m.scale }

// MMToPx converts millimeters to a canvas pixel distance.
func (m *CoordinateMapper) MMToPx(mm float64) float64 { return mm / m.scale }

// PointPxToMM converts a canvas pixel position to a physical position.
func (m *CoordinateMapper) PointPxToMM(xPx, yPx float64) Point {
	return Point{X: m.PxToMM(xPx), Y: m.PxToMM(yPx)}
}

// PointMMToPx converts a physical position to canvas pixels.
func (m *CoordinateMapper) PointMMToPx(p Point) (float64, float64) {
	return m.MMToPx(p.X), m.MMToPx(p.Y)
}

// PctToMM resolves a fractional canvas anchor (0..1) to millimeters.
func (m *CoordinateMapper) PctToMM(xPct, yPct float64) Point {
	return Point{X: xPct * m.physicalWidthMM, Y: yPct * m.physicalHeightMM}
}

// MMToPct derives the fractional canvas anchor for a physical position.
func (m *CoordinateMapper) MMToPct(p Point) (float64, float64) {
	return p.X / m.physicalWidthMM, p.Y / m.physicalHeightMM
}
