package geom

import "fmt"

// PointsPerInch is the number of typographic points in one inch.
const PointsPerInch = 72.0

// Pixels is a length in pixel space at some production resolution.
type Pixels float64

// Points is a length in typographic units (1/72 inch).
type Points float64

// Inches is a physical length.
type Inches float64

// PixelsPerPoint returns how many pixels one typographic point spans at dpi.
// At 300 DPI this is 300/72 ≈ 4.1667.
func PixelsPerPoint(dpi float64) Pixels {
	mustPositive("dpi", dpi)
	return Pixels(dpi / PointsPerInch)
}

// PointsToPixels converts a typographic size to pixels at dpi.
func PointsToPixels(p Points, dpi float64) Pixels {
	return Pixels(float64(p)) * PixelsPerPoint(dpi)
}

// PixelsToPoints converts a pixel length to typographic units at dpi.
func PixelsToPoints(px Pixels, dpi float64) Points {
	return Points(float64(px / PixelsPerPoint(dpi)))
}

// InchesToPixels converts a physical length to pixels at dpi.
func InchesToPixels(in Inches, dpi float64) Pixels {
	mustPositive("dpi", dpi)
	return Pixels(float64(in) * dpi)
}

// PixelsToInches converts a pixel length to a physical length at dpi.
func PixelsToInches(px Pixels, dpi float64) Inches {
	mustPositive("dpi", dpi)
	return Inches(float64(px) / dpi)
}

// InchesToPoints converts a physical length to typographic units.
func InchesToPoints(in Inches) Points {
	return Points(float64(in) * PointsPerInch)
}

func mustPositive(name string, v float64) {
	if !(v > 0) {
		panic(fmt.Sprintf("geom: %s must be positive, got %v", name, v))
	}
}
