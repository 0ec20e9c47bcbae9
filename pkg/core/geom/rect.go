package geom

import (
	"image"
	"math"
)

// Point is a position in pixel space (origin top-left, Y down).
type Point struct {
	X Pixels `json:"x"`
	Y Pixels `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Size is a width and height in pixel space.
type Size struct {
	W Pixels `json:"width"`
	H Pixels `json:"height"`
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Rect is an axis-aligned rectangle in pixel space.
type Rect struct {
	X Pixels `json:"x"`
	Y Pixels `json:"y"`
	W Pixels `json:"width"`
	H Pixels `json:"height"`
}

// R is shorthand for constructing a Rect.
func R(x, y, w, h Pixels) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// FromImageRect converts an integer rectangle to pixel space.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{X: Pixels(r.Min.X), Y: Pixels(r.Min.Y), W: Pixels(r.Dx()), H: Pixels(r.Dy())}
}

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{X: r.X + r.W, Y: r.Y + r.H} }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Center returns the center point.
func (r Rect) Center() Point { return Point{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// At returns r moved so its top-left corner is p.
func (r Rect) At(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}

// Inflate grows r by d on every side. Negative d shrinks it.
func (r Rect) Inflate(d Pixels) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Intersects reports whether r and o share interior area.
// Rectangles that only touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Contains reports whether p lies in r. The left and top edges are inclusive,
// the right and bottom edges exclusive, so adjacent rectangles never both
// contain the same point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Within reports whether r lies entirely inside bounds.
func (r Rect) Within(bounds Rect) bool {
	return r.X >= bounds.X && r.Y >= bounds.Y &&
		r.X+r.W <= bounds.X+bounds.W && r.Y+r.H <= bounds.Y+bounds.H
}

// Fits reports whether r could be moved inside bounds.
func (r Rect) Fits(bounds Rect) bool {
	return r.W <= bounds.W && r.H <= bounds.H
}

// Clamp shifts r the minimum distance needed to lie inside bounds. If r is
// larger than bounds along an axis, it is aligned to the bounds' origin on
// that axis and the result is not within bounds.
func (r Rect) Clamp(bounds Rect) Rect {
	r.X = clampAxis(r.X, r.W, bounds.X, bounds.W)
	r.Y = clampAxis(r.Y, r.H, bounds.Y, bounds.H)
	return r
}

func clampAxis(pos, length, lo, span Pixels) Pixels {
	if length >= span {
		return lo
	}
	if pos < lo {
		return lo
	}
	if pos+length > lo+span {
		return lo + span - length
	}
	return pos
}

// Intersect returns the overlapping part of r and o, or the zero Rect if they
// do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := Pixels(math.Max(float64(r.X), float64(o.X)))
	y0 := Pixels(math.Max(float64(r.Y), float64(o.Y)))
	x1 := Pixels(math.Min(float64(r.X+r.W), float64(o.X+o.W)))
	y1 := Pixels(math.Min(float64(r.Y+r.H), float64(o.Y+o.H)))
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Area returns W*H.
func (r Rect) Area() float64 { return float64(r.W) * float64(r.H) }

// ImageRect rounds r outward to integer pixel coordinates.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(
		int(math.Floor(float64(r.X))),
		int(math.Floor(float64(r.Y))),
		int(math.Ceil(float64(r.X+r.W))),
		int(math.Ceil(float64(r.Y+r.H))),
	)
}
