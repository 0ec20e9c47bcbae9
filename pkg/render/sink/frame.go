package sink

import (
	"github.com/matzehuels/tactile/pkg/core/braille"
	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/layout"
)

// frame maps page pixels onto the physical sheet.
type frame struct {
	px geom.Size
	pt geom.PageSize
}

func pageFrame(p layout.Page) frame {
	return frame{px: p.Size, pt: p.Paper.Points()}
}

// page returns the physical position of a pixel-space point.
func (f frame) page(p geom.Point) geom.PagePoint {
	return geom.ToPageSpace(p, f.px, f.pt)
}

// top returns the position of p measured from the top-left corner of the
// sheet in points, the convention of the PDF writer.
func (f frame) top(p geom.Point) (x, y float64) {
	pp := f.page(p)
	return float64(pp.X), float64(f.pt.H - pp.Y)
}

// length converts a horizontal pixel distance to points.
func (f frame) length(v geom.Pixels) float64 {
	return float64(v) * float64(f.pt.W) / float64(f.px.W)
}

// dot is one raised braille dot in page pixels.
type dot struct {
	Center geom.Point
	Radius geom.Pixels
}

// Dot centres within a cell, as fractions of the cell width and height.
var (
	dotCols = [2]float64{0.3, 0.7}
	dotRows = [4]float64{0.2, 0.4, 0.6, 0.8}
)

// cellDots lays out the raised dots of g across box, one cell per glyph.
// Non-braille runes occupy a cell but raise nothing.
func cellDots(g braille.Glyphs, box geom.Rect) []dot {
	n := g.Len()
	if n == 0 || box.W <= 0 || box.H <= 0 {
		return nil
	}
	cw := box.W / geom.Pixels(n)
	r := min(cw*0.15, box.H*0.08)

	var dots []dot
	i := 0
	for _, c := range string(g) {
		x := box.X + cw*geom.Pixels(i)
		for _, d := range braille.Dots(c) {
			col, row := braille.DotPosition(d)
			dots = append(dots, dot{
				Center: geom.Point{
					X: x + cw*geom.Pixels(dotCols[col]),
					Y: box.Y + box.H*geom.Pixels(dotRows[row]),
				},
				Radius: r,
			})
		}
		i++
	}
	return dots
}
