package tiling

import (
	"fmt"
	"image"
	"math"

	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/errors"
)

// Assign distributes visible labels over the tiles and replaces each tile's
// label list. Every visible label lands on exactly one tile, with its anchor
// and box moved into that tile's local pixels. A label goes to a tile whose
// sheet holds its whole box when one exists; otherwise it goes to the anchor's
// owner and its box is pushed back onto that sheet. Dropped labels are skipped.
func (g *Grid) Assign(labels []placement.Label) {
	for i := range g.Tiles {
		g.Tiles[i].Labels = nil
	}
	for _, l := range labels {
		if !l.Visible() {
			continue
		}
		t := g.Holder(l.Box, l.Anchor)
		if t == nil {
			continue
		}
		d := t.Origin()
		l.Anchor = l.Anchor.Sub(d)
		l.Box = l.Box.Translate(geom.Point{X: -d.X, Y: -d.Y})
		sheet := geom.R(0, 0, geom.Pixels(t.Bounds.Dx()), geom.Pixels(t.Bounds.Dy()))
		if !l.Box.Within(sheet) {
			l.Box = l.Box.Clamp(sheet)
			l.Anchor = l.Box.Min()
			g.Warnings = append(g.Warnings, Warning{
				Code:    errors.ErrCodeTilingDegraded,
				Message: fmt.Sprintf("label %q spans a tile seam; moved onto tile %d", l.Text, t.Index+1),
			})
		}
		t.Labels = append(t.Labels, l)
	}
}

// Holder returns the tile that renders a label with the given box and
// anchor. Only tiles whose bounds contain the whole box are considered, and
// the tie-break rule picks among them: the first in row-major order, or the
// one whose core holds the anchor. With no such tile it falls back to Owner.
func (g *Grid) Holder(box geom.Rect, anchor geom.Point) *Tile {
	var first *Tile
	for i := range g.Tiles {
		t := &g.Tiles[i]
		if !box.Within(geom.FromImageRect(t.Bounds)) {
			continue
		}
		if g.TieBreak != TieCore {
			return t
		}
		if first == nil {
			first = t
		}
		if geom.FromImageRect(t.Core).Contains(anchor) {
			return t
		}
	}
	if first != nil {
		return first
	}
	return g.Owner(anchor)
}

// Owner returns the tile that renders a label anchored at p. Anchors outside
// the artwork are clamped onto its nearest edge first.
func (g *Grid) Owner(p geom.Point) *Tile {
	if len(g.Tiles) == 0 {
		return nil
	}
	pt := image.Pt(
		clampInt(int(math.Floor(float64(p.X))), 0, g.Source.X-1),
		clampInt(int(math.Floor(float64(p.Y))), 0, g.Source.Y-1),
	)

	if g.TieBreak == TieCore {
		for i := range g.Tiles {
			if pt.In(g.Tiles[i].Core) {
				return &g.Tiles[i]
			}
		}
		return nil
	}
	for i := range g.Tiles {
		if pt.In(g.Tiles[i].Bounds) {
			return &g.Tiles[i]
		}
	}
	return nil
}

// Owners returns every tile whose bounds contain p.
func (g *Grid) Owners(p geom.Point) []*Tile {
	var out []*Tile
	for i := range g.Tiles {
		if geom.FromImageRect(g.Tiles[i].Bounds).Contains(p) {
			out = append(out, &g.Tiles[i])
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
