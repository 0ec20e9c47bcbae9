package sink

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/layout"
	"github.com/matzehuels/tactile/pkg/core/placement"
)

const (
	printFont = "goregular"

	// Page furniture in points.
	marginPt      = 36.0
	captionSizePt = 9.0
	titleSizePt   = 18.0
	keyTextSizePt = 11.0
	keyMaxText    = 60
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	title    string
	noArt    bool
	noCapt   bool
	fontSize geom.Points
}

// WithPDFTitle sets the document title metadata.
func WithPDFTitle(title string) PDFOption { return func(r *pdfRenderer) { r.title = title } }

// WithoutArtwork renders labels, marks and captions only. This produces an
// overlay sheet for artwork that was printed separately.
func WithoutArtwork() PDFOption { return func(r *pdfRenderer) { r.noArt = true } }

// WithoutCaptions omits the printed page captions.
func WithoutCaptions() PDFOption { return func(r *pdfRenderer) { r.noCapt = true } }

// WithBrailleSize sets the braille line height used on the key page. It
// should match the font size the layout was built with.
func WithBrailleSize(pt geom.Points) PDFOption { return func(r *pdfRenderer) { r.fontSize = pt } }

// RenderPDF renders every page of the layout as one PDF document.
//
// Artwork is printed black on white so that the swell-paper printer raises
// it. Braille labels are drawn as filled dots, registration marks as
// crosshairs with a centre dot. A key page that does not fit on one sheet
// continues on further sheets.
func RenderPDF(l *layout.Layout, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{fontSize: placement.DefaultFontSize}
	for _, opt := range opts {
		opt(&r)
	}

	pt := l.Paper.Points()
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{
		Unit:     gopdf.UnitPT,
		PageSize: gopdf.Rect{W: float64(pt.W), H: float64(pt.H)},
	})
	if r.title != "" {
		pdf.SetInfo(gopdf.PdfInfo{Title: r.title, Creator: "tactile"})
	}
	if err := pdf.AddTTFFontData(printFont, goregular.TTF); err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	for _, p := range l.Pages {
		var err error
		switch p.Kind {
		case layout.KindKey:
			err = r.keyPages(pdf, p)
		case layout.KindAssembly:
			err = r.assemblyPage(pdf, p)
		default:
			err = r.artworkPage(pdf, l, p)
		}
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p.Number, err)
		}
	}

	return pdf.GetBytesPdfReturnErr()
}

// artworkPage renders an untiled artwork page or a tile.
func (r pdfRenderer) artworkPage(pdf *gopdf.GoPdf, l *layout.Layout, p layout.Page) error {
	pdf.AddPage()
	f := pageFrame(p)

	if !r.noArt {
		if bm := l.Artwork(p); bm != nil && bm.Width > 0 {
			w := f.length(geom.Pixels(bm.Width))
			h := f.length(geom.Pixels(bm.Height))
			if err := pdf.ImageFrom(bm.Image(), 0, 0, &gopdf.Rect{W: w, H: h}); err != nil {
				return fmt.Errorf("artwork: %w", err)
			}
		}
	}

	pdf.SetFillColor(0, 0, 0)
	for _, lb := range p.Labels {
		for _, d := range cellDots(lb.Glyphs, lb.Box) {
			fillCircle(pdf, f, d.Center, d.Radius)
		}
	}

	if p.Tile != nil {
		pdf.SetStrokeColor(0, 0, 0)
		for _, m := range p.Tile.Marks {
			x, y := f.top(m.Center)
			half := f.length(m.Size) / 2
			pdf.SetLineWidth(1)
			pdf.Line(x-half, y, x+half, y)
			pdf.Line(x, y-half, x, y+half)
			fillCircle(pdf, f, m.Center, m.Radius)
		}
	}

	return r.caption(pdf, p)
}

// assemblyPage draws the tile grid with tile numbers and the assembly steps.
func (r pdfRenderer) assemblyPage(pdf *gopdf.GoPdf, p layout.Page) error {
	pdf.AddPage()
	pt := p.Paper.Points()
	m := p.Assembly
	if m == nil || m.Rows == 0 || m.Cols == 0 {
		return r.caption(pdf, p)
	}

	if err := pdf.SetFont(printFont, "", titleSizePt); err != nil {
		return err
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginPt, marginPt)
	if err := pdf.Text("ASSEMBLY MAP"); err != nil {
		return err
	}

	// The grid takes the upper half of the sheet, cells keep the sheet's aspect.
	gridW := float64(pt.W) - 2*marginPt
	gridH := float64(pt.H)/2 - 2*marginPt
	cell := math.Min(gridW/float64(m.Cols), gridH/float64(m.Rows)*float64(pt.W)/float64(pt.H))
	cellH := cell * float64(pt.H) / float64(pt.W)
	top := marginPt + titleSizePt + 12

	if err := pdf.SetFont(printFont, "", keyTextSizePt); err != nil {
		return err
	}
	pdf.SetStrokeColor(0, 0, 0)
	pdf.SetLineWidth(1)
	for row, cells := range m.Cells {
		for col, name := range cells {
			x := marginPt + float64(col)*cell
			y := top + float64(row)*cellH
			pdf.RectFromUpperLeftWithStyle(x, y, cell, cellH, "D")
			w, _ := pdf.MeasureTextWidth(name)
			pdf.SetXY(x+(cell-w)/2, y+cellH/2)
			if err := pdf.Text(name); err != nil {
				return err
			}
		}
	}

	y := top + float64(m.Rows)*cellH + 24
	for _, line := range m.Instructions {
		pdf.SetXY(marginPt, y)
		if err := pdf.Text(line); err != nil {
			return err
		}
		y += keyTextSizePt * 1.6
	}
	return r.caption(pdf, p)
}

// keyPages prints the symbol key. Each entry gets a braille line followed by
// a print line. Entries that do not fit continue on a new sheet.
func (r pdfRenderer) keyPages(pdf *gopdf.GoPdf, p layout.Page) error {
	pt := p.Paper.Points()
	f := pageFrame(p)
	line := geom.PointsToPixels(r.fontSize, float64(f.px.W)/float64(pt.W)*72)
	cell := line * geom.Pixels(placement.DefaultCellRatio)
	entryPt := float64(r.fontSize) + keyTextSizePt*2

	newSheet := func(title string) (float64, error) {
		pdf.AddPage()
		if err := pdf.SetFont(printFont, "", titleSizePt); err != nil {
			return 0, err
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(marginPt, marginPt)
		if err := pdf.Text(title); err != nil {
			return 0, err
		}
		if err := r.caption(pdf, p); err != nil {
			return 0, err
		}
		return marginPt + titleSizePt + 18, pdf.SetFont(printFont, "", keyTextSizePt)
	}

	y, err := newSheet("KEY")
	if err != nil {
		return err
	}
	bottom := float64(pt.H) - marginPt - captionSizePt*2
	pdf.SetFillColor(0, 0, 0)

	for _, e := range p.Key {
		if y+entryPt > bottom {
			if y, err = newSheet("KEY (continued)"); err != nil {
				return err
			}
		}

		glyphs := e.SymbolGlyphs.Concat(" ").Concat(e.Glyphs)
		box := geom.Rect{
			X: geom.Pixels(marginPt) * f.px.W / geom.Pixels(pt.W),
			Y: geom.Pixels(y) * f.px.H / geom.Pixels(pt.H),
			W: cell * geom.Pixels(glyphs.Len()),
			H: line,
		}
		for _, d := range cellDots(glyphs, box) {
			fillCircle(pdf, f, d.Center, d.Radius)
		}
		y += float64(r.fontSize) + keyTextSizePt*0.5

		pdf.SetXY(marginPt, y)
		if err := pdf.Text(fmt.Sprintf("%s = %s", e.Symbol, shorten(e.Text, keyMaxText))); err != nil {
			return err
		}
		y += keyTextSizePt * 1.5
	}
	return nil
}

func (r pdfRenderer) caption(pdf *gopdf.GoPdf, p layout.Page) error {
	if r.noCapt || p.Caption == "" {
		return nil
	}
	pt := p.Paper.Points()
	if err := pdf.SetFont(printFont, "", captionSizePt); err != nil {
		return err
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginPt, float64(pt.H)-marginPt/2)
	return pdf.Text(fmt.Sprintf("%s  (page %d)", p.Caption, p.Number))
}

// fillCircle draws a filled disc of radius r around c.
func fillCircle(pdf *gopdf.GoPdf, f frame, c geom.Point, r geom.Pixels) {
	const segments = 16
	x, y := f.top(c)
	rad := f.length(r)
	pts := make([]gopdf.Point, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / segments
		pts[i] = gopdf.Point{X: x + rad*math.Cos(a), Y: y + rad*math.Sin(a)}
	}
	pdf.Polygon(pts, "F")
}

// shorten cuts s to at most n runes, ending in "...".
func shorten(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
