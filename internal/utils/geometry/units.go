package geometry

// PointsPerMM converts physical millimeters to PDF/print points (1pt = 1/72").
const PointsPerMM = 2.83465

// Physical cheque sizes in millimeters.
const (
	DefaultChequeWidthMM  = 206.0
	DefaultChequeHeightMM = 98.0
	CTS2010WidthMM        = 203.0
	CTS2010HeightMM       = 95.0
)

// MMToPoints converts millimeters to output points.
func MMToPoints(mm float64) float64 {
	return mm * PointsPerMM
}

// PointsToMM converts output points back to millimeters.
func PointsToMM(pt float64) float64 {
	return pt / PointsPerMM
}

// MMToDevicePixels converts millimeters to pixels at the given device DPI.
func MMToDevicePixels(mm float64, dpi float64) float64 {
	return mm / 25.4 * dpi
}

// Point is a position in millimeters measured from the top-left corner, y down.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PageSize is a fixed physical page. It is never scaled or rotated on output.
type PageSize struct {
	WidthMM  float64 `json:"widthMM"`
	HeightMM float64 `json:"heightMM"`
}

// DefaultPageSize is the configured default cheque page.
var DefaultPageSize = PageSize{WidthMM: DefaultChequeWidthMM, HeightMM: DefaultChequeHeightMM}

// WidthPoints returns the page width in points.
func (p PageSize) WidthPoints() float64 { return MMToPoints(p.WidthMM) }

// HeightPoints returns the page height in points.
func (p PageSize) HeightPoints() float64 { return MMToPoints(p.HeightMM) }

// Valid reports whether both dimensions are positive.
func (p PageSize) Valid() bool { return p.WidthMM > 0 && p.HeightMM > 0 }

// Offset is a printer calibration shift in millimeters applied to every field.
type Offset struct {
	XMM float64 `json:"xMM"`
	YMM float64 `json:"yMM"`
}

// ToDeviceX maps a top-left based mm x coordinate into output points.
func ToDeviceX(xMM, offsetXMM float64) float64 {
	return MMToPoints(xMM + offsetXMM)
}

// ToDeviceY maps a top-left based, y-down mm coordinate into the output page's
// native bottom-left based, y-up point coordinate.
func ToDeviceY(pageHeightPt, yMM, offsetYMM float64) float64 {
	return pageHeightPt - MMToPoints(yMM+offsetYMM)
}

// ToDevice maps a template point onto the output page.
func (p PageSize) ToDevice(pt Point, off Offset) (float64, float64) {
	return ToDeviceX(pt.X, off.XMM), ToDeviceY(p.HeightPoints(), pt.Y, off.YMM)
}
