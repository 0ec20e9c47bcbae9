package tiling

import (
	"fmt"
	"image"
	"math"

	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/errors"
)

// Warning is a non-fatal tiling problem.
type Warning struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// Corner names one corner of a tile.
type Corner string

// Tile corners.
const (
	TopLeft     Corner = "top-left"
	TopRight    Corner = "top-right"
	BottomLeft  Corner = "bottom-left"
	BottomRight Corner = "bottom-right"
)

// Mark is a registration crosshair in tile-local pixels.
type Mark struct {
	Corner Corner      `json:"corner"`
	Center geom.Point  `json:"center"`
	Size   geom.Pixels `json:"size"`
	Radius geom.Pixels `json:"radius"`
}

// Tile is one printed sheet of a tiled artwork.
type Tile struct {
	Index   int               `json:"index"`
	Row     int               `json:"row"`
	Col     int               `json:"col"`
	Bounds  image.Rectangle   `json:"bounds"`
	Core    image.Rectangle   `json:"core"`
	Marks   []Mark            `json:"marks,omitempty"`
	Labels  []placement.Label `json:"labels,omitempty"`
	Caption string            `json:"caption"`
}

// Origin returns the tile's top-left corner in source pixels.
func (t *Tile) Origin() geom.Point {
	return geom.Point{X: geom.Pixels(t.Bounds.Min.X), Y: geom.Pixels(t.Bounds.Min.Y)}
}

// Grid is the tiling of one artwork.
type Grid struct {
	Source   image.Point // artwork size in pixels
	Paper    image.Point // sheet size in pixels
	Step     image.Point // distance between consecutive tile origins
	Rows     int
	Cols     int
	Overlap  float64
	TieBreak TieBreak
	Tiles    []Tile // row-major
	Warnings []Warning
}

// NeedsTiling reports whether source is larger than paper on either axis.
func NeedsTiling(source, paper geom.Size) bool {
	return source.W > paper.W || source.H > paper.H
}

// Plan tiles an artwork of the given size. It fails only on invalid
// configuration; degraded layouts are reported in Grid.Warnings.
func Plan(source geom.Size, cfg Config) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("artwork width", float64(source.W)); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("artwork height", float64(source.H)); err != nil {
		return nil, err
	}

	overlap := max(cfg.Overlap, 0)
	src := image.Pt(pixels(source.W), pixels(source.H))
	paper := image.Pt(pixels(cfg.Paper.W), pixels(cfg.Paper.H))
	shared := image.Pt(int(math.Floor(float64(paper.X)*overlap)), int(math.Floor(float64(paper.Y)*overlap)))
	step := paper.Sub(shared)

	g := &Grid{
		Source:   src,
		Paper:    paper,
		Step:     step,
		Cols:     ceilDiv(src.X, step.X),
		Rows:     ceilDiv(src.Y, step.Y),
		Overlap:  overlap,
		TieBreak: cfg.TieBreak,
	}
	g.Warnings = degraded(cfg, shared)

	total := g.Rows * g.Cols
	srcRect := image.Rectangle{Max: src}
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			origin := image.Pt(col*step.X, row*step.Y)
			bounds := image.Rectangle{Min: origin, Max: origin.Add(paper)}.Intersect(srcRect)

			core := image.Rectangle{Min: origin, Max: origin.Add(step)}
			if col == g.Cols-1 {
				core.Max.X = src.X
			}
			if row == g.Rows-1 {
				core.Max.Y = src.Y
			}
			core = core.Intersect(srcRect)

			t := Tile{
				Index:   len(g.Tiles),
				Row:     row,
				Col:     col,
				Bounds:  bounds,
				Core:    core,
				Caption: Caption(len(g.Tiles), total, row, col),
			}
			if !cfg.NoMarks {
				t.Marks = marks(bounds.Size(), cfg)
			}
			g.Tiles = append(g.Tiles, t)
		}
	}
	return g, nil
}

// Single returns a one-tile grid covering the whole artwork. It lets
// callers treat untiled pages uniformly.
func Single(source geom.Size) *Grid {
	src := image.Pt(pixels(source.W), pixels(source.H))
	r := image.Rectangle{Max: src}
	return &Grid{
		Source: src,
		Paper:  src,
		Step:   src,
		Rows:   1,
		Cols:   1,
		Tiles:  []Tile{{Bounds: r, Core: r, Caption: Caption(0, 1, 0, 0)}},
	}
}

// Tile returns the tile at (row, col), or nil if out of range.
func (g *Grid) Tile(row, col int) *Tile {
	if row < 0 || col < 0 || row >= g.Rows || col >= g.Cols {
		return nil
	}
	return &g.Tiles[row*g.Cols+col]
}

// Caption returns the printed caption for tile index i (zero-based) of n.
func Caption(i, n, row, col int) string {
	return fmt.Sprintf("Tile %d of %d - Row %d, Column %d", i+1, n, row+1, col+1)
}

func marks(size image.Point, cfg Config) []Mark {
	w, h := geom.Pixels(size.X), geom.Pixels(size.Y)
	half := cfg.MarkSize / 2
	near := cfg.MarkInset + half
	farX := w - cfg.MarkInset - half
	farY := h - cfg.MarkInset - half
	mk := func(c Corner, x, y geom.Pixels) Mark {
		return Mark{Corner: c, Center: geom.Point{X: x, Y: y}, Size: cfg.MarkSize, Radius: cfg.MarkRadius}
	}
	return []Mark{
		mk(TopLeft, near, near),
		mk(TopRight, farX, near),
		mk(BottomLeft, near, farY),
		mk(BottomRight, farX, farY),
	}
}

func degraded(cfg Config, shared image.Point) []Warning {
	var ws []Warning
	warn := func(format string, args ...any) {
		ws = append(ws, Warning{Code: errors.ErrCodeTilingDegraded, Message: fmt.Sprintf(format, args...)})
	}

	if cfg.Overlap <= 0 {
		warn("tiles do not overlap (overlap %.0f%%); sheets must be butted edge to edge", cfg.Overlap*100)
	} else if !cfg.NoMarks {
		need := int(math.Ceil(float64(cfg.MarkSize + cfg.MarkInset)))
		if shared.X < need || shared.Y < need {
			warn("overlap of %dx%d px is narrower than a %d px registration mark", shared.X, shared.Y, need)
		}
	}
	if cfg.Paper.W < cfg.MinFeature || cfg.Paper.H < cfg.MinFeature {
		warn("sheet %.0fx%.0f px is smaller than the minimum feature size of %.0f px", cfg.Paper.W, cfg.Paper.H, cfg.MinFeature)
	}
	return ws
}

func pixels(v geom.Pixels) int { return max(1, int(math.Round(float64(v)))) }

func ceilDiv(a, b int) int { return (a + b - 1) / b }
