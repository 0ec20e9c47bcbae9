package sink

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/tactile/pkg/core/braille"
	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/layout"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/core/raster"
	"github.com/matzehuels/tactile/pkg/core/tiling"
)

// testLayout returns a letter layout at 72 DPI, where one pixel is one point.
func testLayout() *layout.Layout {
	size := geom.Letter.Pixels(72)
	art := raster.New(100, 50)
	art.Fill(image.Rect(10, 10, 40, 40))

	label := placement.Label{
		Index:    0,
		Text:     "ab",
		Glyphs:   "⠁⠃",
		Box:      geom.R(20, 60, 12, 10),
		Rotation: 90,
		Outcome:  placement.Placed,
	}
	symbol := placement.Label{
		Index:   1,
		Text:    "cafeteria",
		Glyphs:  "⠁",
		Symbol:  "a",
		Box:     geom.R(60, 60, 6, 10),
		Outcome: placement.Symbolized,
	}
	tile := tiling.Tile{
		Index: 0,
		Marks: []tiling.Mark{{Corner: tiling.TopLeft, Center: geom.Point{X: 25, Y: 25}, Size: 30, Radius: 3}},
	}

	return &layout.Layout{
		JobID: "job",
		DPI:   72,
		Paper: geom.Letter,
		Pages: []layout.Page{
			{Number: 1, Kind: layout.KindArtwork, Paper: geom.Letter, Size: size,
				Region: art.Bounds(), Labels: []placement.Label{label, symbol}, Caption: "Floor 1"},
			{Number: 2, Kind: layout.KindTile, Paper: geom.Letter, Size: size,
				Region: image.Rect(0, 0, 50, 50), Tile: &tile, Caption: "Tile 1 of 1 - Row 1, Column 1"},
			{Number: 3, Kind: layout.KindKey, Source: -1, Paper: geom.Letter, Size: size,
				Caption: "Symbol key",
				Key: []placement.SymbolKeyEntry{{Symbol: "a", Text: "cafeteria", Glyphs: "⠉⠁⠋", SymbolGlyphs: "⠁"}}},
		},
		Labels:  []placement.Label{label, symbol},
		Bitmaps: []*raster.Bitmap{art},
	}
}

func TestCellDots(t *testing.T) {
	tests := []struct {
		name   string
		glyphs braille.Glyphs
		want   int
	}{
		{"dot1", "⠁", 1},
		{"fullCell", "⠿", 6},
		{"twoCells", "⠁⠃", 3},
		{"blank", "⠀", 0},
		{"printSpace", " ", 0},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cellDots(tt.glyphs, geom.R(0, 0, 10*geom.Pixels(max(1, tt.glyphs.Len())), 20))
			if len(got) != tt.want {
				t.Errorf("got %d dots, want %d", len(got), tt.want)
			}
		})
	}

	t.Run("positions", func(t *testing.T) {
		// Dots 1 and 6 of the second cell: left top, right bottom.
		got := cellDots("⠀⠡", geom.R(0, 0, 20, 20))
		if len(got) != 2 {
			t.Fatalf("got %d dots, want 2", len(got))
		}
		if !near(got[0].Center, geom.Point{X: 13, Y: 4}) {
			t.Errorf("dot 1 at %v, want (13,4)", got[0].Center)
		}
		if !near(got[1].Center, geom.Point{X: 17, Y: 12}) {
			t.Errorf("dot 6 at %v, want (17,12)", got[1].Center)
		}
		if math.Abs(float64(got[0].Radius)-1.5) > 1e-9 {
			t.Errorf("radius = %v, want 1.5", got[0].Radius)
		}
	})
}

func near(a, b geom.Point) bool {
	return math.Abs(float64(a.X-b.X)) < 1e-9 && math.Abs(float64(a.Y-b.Y)) < 1e-9
}

func TestFrameTop(t *testing.T) {
	p := testLayout().Pages[0]
	f := pageFrame(p)
	x, y := f.top(geom.Point{X: 10, Y: 20})
	if math.Abs(x-10) > 1e-9 || math.Abs(y-20) > 1e-9 {
		t.Errorf("top = (%v, %v), want (10, 20)", x, y)
	}
	if got := f.length(72); math.Abs(got-72) > 1e-9 {
		t.Errorf("length(72) = %v, want 72", got)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testLayout(), WithJSONDots())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Width != 612 || out.Height != 792 {
		t.Errorf("sheet = %vx%v, want 612x792", out.Width, out.Height)
	}
	if len(out.Pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(out.Pages))
	}

	art := out.Pages[0].Artwork
	if art == nil || art.X != 0 || art.Y != 742 || art.Width != 100 || art.Height != 50 {
		t.Errorf("artwork box = %+v, want {0 742 100 50}", art)
	}

	lb := out.Pages[0].Labels[0]
	// Pixel box (20,60) 12x10 has its bottom edge at y=70, i.e. 792-70 in page space.
	if lb.Box.X != 20 || lb.Box.Y != 722 || lb.Box.Width != 12 || lb.Box.Height != 10 {
		t.Errorf("label box = %+v, want {20 722 12 10}", lb.Box)
	}
	if lb.Outcome != placement.Placed {
		t.Errorf("outcome = %v, want placed", lb.Outcome)
	}
	if lb.Rotation != 90 {
		t.Errorf("rotation = %v, want 90", lb.Rotation)
	}
	if lb.Box.Width != 12 || lb.Box.Height != 10 {
		t.Errorf("rotated label box = %+v, want the horizontal 12x10 box", lb.Box)
	}
	if len(lb.Dots) != 3 {
		t.Errorf("dots = %d, want 3", len(lb.Dots))
	}
	if out.Pages[0].Labels[1].Symbol != "a" {
		t.Errorf("symbol = %q, want a", out.Pages[0].Labels[1].Symbol)
	}

	marks := out.Pages[1].Marks
	if len(marks) != 1 || marks[0].Center.Y != 767 || marks[0].Size != 30 {
		t.Errorf("marks = %+v", marks)
	}
	if out.Pages[1].Artwork == nil {
		t.Error("tile page should carry an artwork box")
	}
	if out.Pages[2].Artwork != nil {
		t.Error("key page should not carry an artwork box")
	}
}

func TestRenderJSONCompact(t *testing.T) {
	data, err := RenderJSON(testLayout(), WithJSONCompact())
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("\n  ")) {
		t.Error("compact output should not be indented")
	}
	if bytes.Contains(data, []byte(`"dots"`)) {
		t.Error("dots should be omitted by default")
	}
}

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(testLayout(), WithPDFTitle("test"))
	if err != nil {
		t.Fatalf("RenderPDF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", data[:min(8, len(data))])
	}
}

func TestRenderPDFOptions(t *testing.T) {
	l := testLayout()
	with, err := RenderPDF(l)
	if err != nil {
		t.Fatal(err)
	}
	without, err := RenderPDF(l, WithoutArtwork(), WithoutCaptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(without) >= len(with) {
		t.Errorf("overlay PDF (%d bytes) should be smaller than the full PDF (%d bytes)", len(without), len(with))
	}
}

func TestRenderPDFKeyContinuation(t *testing.T) {
	l := testLayout()
	key := &l.Pages[2]
	for i := 0; i < 200; i++ {
		key.Key = append(key.Key, placement.SymbolKeyEntry{
			Symbol:       placement.Token(i),
			Text:         strings.Repeat("room ", 20),
			Glyphs:       "⠗⠕⠕⠍",
			SymbolGlyphs: "⠁",
		})
	}
	if _, err := RenderPDF(l); err != nil {
		t.Fatalf("RenderPDF() with a long key: %v", err)
	}
}

func TestRenderPNG(t *testing.T) {
	l := testLayout()

	t.Run("singlePage", func(t *testing.T) {
		data, err := RenderPNG(l, WithPage(1), WithWidth(306))
		if err != nil {
			t.Fatalf("RenderPNG() error: %v", err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("png.Decode() error: %v", err)
		}
		if got := img.Bounds().Size(); got != image.Pt(306, 396) {
			t.Errorf("size = %v, want 306x396", got)
		}
	})

	t.Run("contactSheet", func(t *testing.T) {
		data, err := RenderPNG(l, WithWidth(306))
		if err != nil {
			t.Fatalf("RenderPNG() error: %v", err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatal(err)
		}
		if want := 3*396 + 2*pageGap; img.Bounds().Dy() != want {
			t.Errorf("height = %d, want %d", img.Bounds().Dy(), want)
		}
	})

	t.Run("errors", func(t *testing.T) {
		if _, err := RenderPNG(l, WithPage(4)); err == nil {
			t.Error("expected error for page out of range")
		}
		if _, err := RenderPNG(l, WithWidth(0)); err == nil {
			t.Error("expected error for zero width")
		}
		if _, err := RenderPNG(&layout.Layout{DPI: 72, Paper: geom.Letter}); err == nil {
			t.Error("expected error for empty layout")
		}
	})
}

func TestRenderPageDrawsArtwork(t *testing.T) {
	l := testLayout()
	face, err := captionFace(72)
	if err != nil {
		t.Fatal(err)
	}
	img := renderPage(l, l.Pages[0], face)
	if r, _, _, _ := img.At(20, 20).RGBA(); r != 0 {
		t.Errorf("raised artwork pixel should be black, red = %d", r)
	}
	if r, _, _, _ := img.At(5, 5).RGBA(); r != 0xffff {
		t.Errorf("background pixel should be white, red = %d", r)
	}
}
