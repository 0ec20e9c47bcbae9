package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/layout"
)

// DefaultPreviewWidth is the width of one page in a PNG preview.
const DefaultPreviewWidth = 800

// pageGap separates pages on a contact sheet.
const pageGap = 16

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	width int
	page  int
}

// WithWidth sets the width of each page in preview pixels.
func WithWidth(px int) PNGOption { return func(r *pngRenderer) { r.width = px } }

// WithPage renders only the page with the given 1-based number.
func WithPage(n int) PNGOption { return func(r *pngRenderer) { r.page = n } }

var (
	paperColor = color.Gray{Y: 0xff}
	inkColor   = color.Gray{Y: 0x00}
	labelColor = color.RGBA{R: 0x1f, G: 0x5f, B: 0xd0, A: 0xff}
	markColor  = color.RGBA{R: 0xd0, G: 0x20, B: 0x20, A: 0xff}
	sheetColor = color.Gray{Y: 0xc8}
)

// RenderPNG renders a preview of the layout. Without [WithPage] every page is
// stacked top to bottom on one contact sheet.
//
// Pages are drawn at the production resolution and then downscaled, so the
// preview shows exactly what the printer receives. Braille dots are tinted
// blue and registration marks red to tell them apart from the artwork.
func RenderPNG(l *layout.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{width: DefaultPreviewWidth}
	for _, opt := range opts {
		opt(&r)
	}
	if r.width <= 0 {
		return nil, fmt.Errorf("invalid preview width %d", r.width)
	}

	pages := l.Pages
	if r.page != 0 {
		if r.page < 1 || r.page > len(l.Pages) {
			return nil, fmt.Errorf("page %d out of range 1-%d", r.page, len(l.Pages))
		}
		pages = l.Pages[r.page-1 : r.page]
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("layout has no pages")
	}

	face, err := captionFace(l.DPI)
	if err != nil {
		return nil, err
	}

	var thumbs []*image.RGBA
	height := 0
	for _, p := range pages {
		full := renderPage(l, p, face)
		b := full.Bounds()
		h := max(1, b.Dy()*r.width/b.Dx())
		thumb := image.NewRGBA(image.Rect(0, 0, r.width, h))
		draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), full, b, draw.Src, nil)
		thumbs = append(thumbs, thumb)
		height += h
	}
	height += pageGap * (len(thumbs) - 1)

	sheet := image.NewRGBA(image.Rect(0, 0, r.width, height))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(sheetColor), image.Point{}, draw.Src)
	y := 0
	for _, t := range thumbs {
		dst := t.Bounds().Add(image.Pt(0, y))
		draw.Draw(sheet, dst, t, image.Point{}, draw.Src)
		y += t.Bounds().Dy() + pageGap
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sheet); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderPage draws one page at full resolution.
func renderPage(l *layout.Layout, p layout.Page, face font.Face) *image.RGBA {
	w, h := int(p.Size.W), int(p.Size.H)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(paperColor), image.Point{}, draw.Src)

	if bm := l.Artwork(p); bm != nil && bm.Width > 0 {
		art := bm.Image()
		draw.Draw(img, art.Bounds().Sub(art.Bounds().Min), art, art.Bounds().Min, draw.Src)
	}

	for _, lb := range p.Labels {
		for _, d := range cellDots(lb.Glyphs, lb.Box) {
			disc(img, d.Center, d.Radius, labelColor)
		}
	}

	if p.Tile != nil {
		for _, m := range p.Tile.Marks {
			half := m.Size / 2
			line(img, m.Center.Sub(geom.Point{X: half}), m.Center.Add(geom.Point{X: half}), markColor)
			line(img, m.Center.Sub(geom.Point{Y: half}), m.Center.Add(geom.Point{Y: half}), markColor)
			disc(img, m.Center, m.Radius, markColor)
		}
	}

	text := p.Caption
	if p.Kind == layout.KindAssembly && p.Assembly != nil {
		text = p.Assembly.String()
	}
	if text != "" {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(inkColor),
			Face: face,
		}
		lineH := face.Metrics().Height.Ceil()
		y := h - lineH
		if p.Kind != layout.KindArtwork && p.Kind != layout.KindTile {
			y = 2 * lineH
		}
		for _, s := range strings.Split(text, "\n") {
			d.Dot = fixed.P(lineH, y)
			d.DrawString(s)
			y += lineH
		}
	}
	return img
}

// captionFace returns the print font sized for 9 pt at dpi.
func captionFace(dpi float64) (font.Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    captionSizePt,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
}

// disc fills a circle of radius r around c.
func disc(img *image.RGBA, c geom.Point, r geom.Pixels, col color.Color) {
	rr := float64(r) * float64(r)
	x0, x1 := int(c.X-r), int(c.X+r+1)
	y0, y1 := int(c.Y-r), int(c.Y+r+1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-float64(c.X), float64(y)+0.5-float64(c.Y)
			if dx*dx+dy*dy <= rr {
				img.Set(x, y, col)
			}
		}
	}
}

// line draws an axis-aligned line three pixels wide.
func line(img *image.RGBA, a, b geom.Point, col color.Color) {
	r := image.Rect(int(a.X), int(a.Y), int(b.X)+1, int(b.Y)+1)
	if r.Dx() <= 1 {
		r = r.Inset(-1)
		r.Min.Y, r.Max.Y = int(a.Y), int(b.Y)+1
	} else {
		r = r.Inset(-1)
		r.Min.X, r.Max.X = int(a.X), int(b.X)+1
	}
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(col), image.Point{}, draw.Src)
}
