package sink

import (
	"encoding/json"

	"github.com/matzehuels/tactile/pkg/core/braille"
	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/layout"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/core/tiling"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
	dots    bool
}

// WithJSONCompact omits indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// WithJSONDots adds the physical position of every raised braille dot to each
// label, for embossers and plotters that cannot decode braille themselves.
func WithJSONDots() JSONOption { return func(r *jsonRenderer) { r.dots = true } }

type jsonOutput struct {
	JobID    string           `json:"job_id,omitempty"`
	Paper    string           `json:"paper"`
	Width    geom.Points      `json:"width_pt"`
	Height   geom.Points      `json:"height_pt"`
	Pages    []jsonPage       `json:"pages"`
	Summary  layout.Summary   `json:"summary"`
	Warnings []layout.Warning `json:"warnings,omitempty"`
	Key      []jsonKeyEntry   `json:"key,omitempty"`
}

type jsonPage struct {
	Number   int                 `json:"number"`
	Kind     layout.Kind         `json:"kind"`
	Caption  string              `json:"caption,omitempty"`
	Artwork  *jsonBox            `json:"artwork,omitempty"`
	Labels   []jsonLabel         `json:"labels,omitempty"`
	Marks    []jsonMark          `json:"marks,omitempty"`
	Assembly *tiling.AssemblyMap `json:"assembly,omitempty"`
}

// jsonBox is a rectangle in page space: X/Y is the bottom-left corner.
type jsonBox struct {
	X      geom.Points `json:"x"`
	Y      geom.Points `json:"y"`
	Width  geom.Points `json:"width"`
	Height geom.Points `json:"height"`
}

// jsonLabel.Rotation is the angle of the source text in degrees, as
// detected. Box and Dots are always horizontal.
type jsonLabel struct {
	Index    int               `json:"index"`
	Text     string            `json:"text"`
	Glyphs   braille.Glyphs    `json:"glyphs"`
	Symbol   string            `json:"symbol,omitempty"`
	Outcome  placement.Outcome `json:"outcome"`
	Box      jsonBox           `json:"box"`
	Rotation float64           `json:"rotation,omitempty"`
	Dots     []geom.PagePoint  `json:"dots,omitempty"`
}

type jsonMark struct {
	Corner tiling.Corner  `json:"corner"`
	Center geom.PagePoint `json:"center"`
	Size   geom.Points    `json:"size"`
	Radius geom.Points    `json:"radius"`
}

type jsonKeyEntry struct {
	Symbol string         `json:"symbol"`
	Text   string         `json:"text"`
	Glyphs braille.Glyphs `json:"glyphs"`
	Page   int            `json:"page"`
}

// RenderJSON exports the layout in physical page space. Positions are points
// with the origin at the bottom-left of each sheet.
//
// This is the interchange format for external renderers. It is not meant to be
// read back; use the io package to persist a layout for later rendering.
func RenderJSON(l *layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	pt := l.Paper.Points()
	out := jsonOutput{
		JobID:    l.JobID,
		Paper:    l.Paper.Name,
		Width:    pt.W,
		Height:   pt.H,
		Pages:    make([]jsonPage, 0, len(l.Pages)),
		Summary:  l.Summary,
		Warnings: l.Warnings,
	}
	for _, e := range l.Key {
		out.Key = append(out.Key, jsonKeyEntry{Symbol: e.Symbol, Text: e.Text, Glyphs: e.Glyphs, Page: e.Page})
	}
	for _, p := range l.Pages {
		out.Pages = append(out.Pages, r.page(p))
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

func (r jsonRenderer) page(p layout.Page) jsonPage {
	f := pageFrame(p)
	jp := jsonPage{
		Number:   p.Number,
		Kind:     p.Kind,
		Caption:  p.Caption,
		Assembly: p.Assembly,
	}
	if (p.Kind == layout.KindArtwork || p.Kind == layout.KindTile) && !p.Region.Empty() {
		art := geom.Rect{W: geom.Pixels(p.Region.Dx()), H: geom.Pixels(p.Region.Dy())}
		b := f.box(art)
		jp.Artwork = &b
	}
	for _, lb := range p.Labels {
		jl := jsonLabel{
			Index:    lb.Index,
			Text:     lb.Text,
			Glyphs:   lb.Glyphs,
			Symbol:   lb.Symbol,
			Outcome:  lb.Outcome,
			Box:      f.box(lb.Box),
			Rotation: lb.Rotation,
		}
		if r.dots {
			for _, d := range cellDots(lb.Glyphs, lb.Box) {
				jl.Dots = append(jl.Dots, f.page(d.Center))
			}
		}
		jp.Labels = append(jp.Labels, jl)
	}
	if p.Tile != nil {
		for _, m := range p.Tile.Marks {
			jp.Marks = append(jp.Marks, jsonMark{
				Corner: m.Corner,
				Center: f.page(m.Center),
				Size:   geom.Points(f.length(m.Size)),
				Radius: geom.Points(f.length(m.Radius)),
			})
		}
	}
	return jp
}

// box converts a pixel rectangle into a page-space box anchored at its
// bottom-left corner.
func (f frame) box(r geom.Rect) jsonBox {
	bl := f.page(geom.Point{X: r.X, Y: r.Y + r.H})
	tr := f.page(geom.Point{X: r.X + r.W, Y: r.Y})
	return jsonBox{X: bl.X, Y: bl.Y, Width: tr.X - bl.X, Height: tr.Y - bl.Y}
}
