package layout

import (
	"context"
	stderrors "errors"
	"image"
	"testing"

	"github.com/matzehuels/tactile/pkg/core/braille"
	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/core/raster"
	"github.com/matzehuels/tactile/pkg/errors"
)

// sparse returns a bitmap with a one-pixel border, well below any target.
func sparse(w, h int) *raster.Bitmap {
	b := raster.New(w, h)
	for x := 0; x < w; x++ {
		b.Set(x, 0, true)
		b.Set(x, h-1, true)
	}
	return b
}

func region(text string, x, y geom.Pixels, page int) placement.Region {
	return placement.Region{Text: text, Box: geom.R(x, y, 80, 30), Confidence: 0.9, Page: page}
}

func kinds(l *Layout) []Kind {
	out := make([]Kind, len(l.Pages))
	for i, p := range l.Pages {
		out[i] = p.Kind
	}
	return out
}

func equalKinds(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildSinglePage(t *testing.T) {
	job := Job{
		ID:      "job-1",
		Sources: []Source{{Bitmap: sparse(2000, 1500)}},
		Regions: []placement.Region{
			region("Kitchen", 300, 300, 0),
			region("Hall", 900, 300, 0),
		},
	}
	l, err := Build(context.Background(), job, braille.Fallback{}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if got := kinds(l); !equalKinds(got, []Kind{KindArtwork}) {
		t.Fatalf("pages = %v, want one artwork page", got)
	}
	p := l.Pages[0]
	if p.Number != 1 || p.Region != image.Rect(0, 0, 2000, 1500) {
		t.Errorf("page = %+v", p)
	}
	if p.Size != (geom.Size{W: 2550, H: 3300}) {
		t.Errorf("page size = %v, want letter at 300 DPI", p.Size)
	}
	if len(p.Labels) != 2 || l.Summary.Placed != 2 {
		t.Errorf("labels = %d, summary = %+v", len(p.Labels), l.Summary)
	}
	if l.Summary.Tiles != 0 || l.Summary.Pages != 1 {
		t.Errorf("summary = %+v", l.Summary)
	}
	if len(l.Summary.Density) != 1 || !l.Summary.Density[0].TargetMet {
		t.Errorf("density report = %+v", l.Summary.Density)
	}
	if len(l.Warnings) != 0 {
		t.Errorf("warnings = %+v", l.Warnings)
	}
	if art := l.Artwork(p); art == nil || art.Width != 2000 {
		t.Errorf("Artwork() = %+v", art)
	}
}

func TestBuildLabelsMayUseWholeSheet(t *testing.T) {
	job := Job{
		Sources: []Source{{Bitmap: sparse(500, 500)}},
		Regions: []placement.Region{region("Garden", 480, 480, 0)},
	}
	l, err := Build(context.Background(), job, braille.Fallback{}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	got := l.Labels[0]
	if got.Outcome != placement.Placed || got.Anchor != (geom.Point{X: 485, Y: 470}) {
		t.Errorf("label = %v at %v, want placed at its anchor beyond the artwork edge", got.Outcome, got.Anchor)
	}
}

func TestBuildTiledScenario(t *testing.T) {
	job := Job{
		Sources: []Source{{Bitmap: sparse(6000, 8000)}},
		Regions: []placement.Region{
			region("Seam", 2395, 110, 0),
			region("Far corner", 5800, 7900, 0),
		},
	}
	l, err := Build(context.Background(), job, braille.Fallback{}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	want := []Kind{KindAssembly}
	for i := 0; i < 9; i++ {
		want = append(want, KindTile)
	}
	if got := kinds(l); !equalKinds(got, want) {
		t.Fatalf("pages = %v, want assembly + 9 tiles", got)
	}
	if l.Summary.Tiles != 9 || l.Summary.Pages != 10 {
		t.Errorf("summary = %+v", l.Summary)
	}

	m := l.Pages[0].Assembly
	if m == nil || m.Rows != 3 || m.Cols != 3 {
		t.Fatalf("assembly map = %+v", m)
	}

	for i, p := range l.Pages[1:] {
		if p.Tile == nil || p.Tile.Index != i || p.Number != i+2 {
			t.Errorf("page %d: tile %+v number %d", i, p.Tile, p.Number)
		}
		if p.Tile.Labels != nil {
			t.Errorf("page %d: labels duplicated on the tile", i)
		}
	}

	seen := 0
	for _, p := range l.Pages {
		for _, lab := range p.Labels {
			if lab.Text == "Seam" {
				seen++
				if p.Tile.Index != 0 || lab.Anchor != (geom.Point{X: 2400, Y: 100}) {
					t.Errorf("seam label on tile %d at %v, want tile 0 at (2400,100)", p.Tile.Index, lab.Anchor)
				}
			}
		}
	}
	if seen != 1 {
		t.Errorf("seam label rendered %d times, want 1", seen)
	}

	far := l.Labels[1]
	if !far.Box.Within(geom.R(0, 0, 6000, 8000)) {
		t.Errorf("label box %+v escapes the artwork", far.Box)
	}
}

func TestBuildSymbolKeyAcrossPages(t *testing.T) {
	opts := DefaultOptions()
	opts.Placement.Order = []placement.Direction{placement.Original}

	job := Job{
		Sources: []Source{{Bitmap: sparse(1000, 800)}, {Bitmap: sparse(1000, 800)}},
		Regions: []placement.Region{
			region("Living room", 300, 300, 0),
			region("Dining", 220, 300, 0),
			region("Bedroom", 300, 300, 1),
			region("Closet", 220, 300, 1),
		},
	}
	l, err := Build(context.Background(), job, braille.Fallback{}, opts)
	if err != nil {
		t.Fatal(err)
	}

	if got := kinds(l); !equalKinds(got, []Kind{KindArtwork, KindArtwork, KindKey}) {
		t.Fatalf("pages = %v, want two artwork pages and a key", got)
	}
	key := l.Pages[2].Key
	if len(key) != 2 || key[0].Symbol != "a" || key[1].Symbol != "b" {
		t.Fatalf("key = %+v, want a then b", key)
	}
	if key[0].Text != "Dining" || key[0].Page != 0 || key[1].Text != "Closet" || key[1].Page != 1 {
		t.Errorf("key = %+v", key)
	}
	if l.Summary.Symbolized != 2 || l.Summary.Placed != 2 {
		t.Errorf("summary = %+v", l.Summary)
	}
	for _, lab := range l.Labels {
		if lab.Outcome == placement.Symbolized && lab.Page != map[string]int{"a": 0, "b": 1}[lab.Symbol] {
			t.Errorf("symbol %q on page %d", lab.Symbol, lab.Page)
		}
	}
}

func TestBuildDroppedLabelWarns(t *testing.T) {
	opts := DefaultOptions()
	opts.Placement.UseSymbols = false
	opts.Placement.Order = []placement.Direction{placement.Original}

	job := Job{
		Sources: []Source{{Bitmap: sparse(800, 600)}},
		Regions: []placement.Region{region("Stair", 100, 100, 0), region("Lift", 100, 100, 0)},
	}
	l, err := Build(context.Background(), job, braille.Fallback{}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if l.Summary.Dropped != 1 || len(l.Pages[0].Labels) != 1 {
		t.Errorf("summary = %+v, page labels = %d", l.Summary, len(l.Pages[0].Labels))
	}
	if len(l.Warnings) != 1 || l.Warnings[0].Code != errors.ErrCodePlacementExhausted || l.Warnings[0].Label != 1 {
		t.Errorf("warnings = %+v", l.Warnings)
	}
}

func TestBuildDensity(t *testing.T) {
	stripes := func() *raster.Bitmap {
		b := raster.New(100, 100)
		for y := 0; y < 100; y++ {
			for x := 0; x < 100; x++ {
				b.Set(x, y, x%5 < 3)
			}
		}
		return b
	}

	t.Run("target missed is a warning", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Density.MaxIterations = 1
		l, err := Build(context.Background(), Job{Sources: []Source{{Bitmap: stripes()}}}, braille.Fallback{}, opts)
		if err != nil {
			t.Fatal(err)
		}
		if len(l.Warnings) != 1 || l.Warnings[0].Code != errors.ErrCodeDensityTargetMissed {
			t.Errorf("warnings = %+v", l.Warnings)
		}
		if r := l.Summary.Density[0]; r.TargetMet || r.Achieved != 0.41 {
			t.Errorf("density report = %+v", r)
		}
	})

	t.Run("safety bound is fatal", func(t *testing.T) {
		solid := raster.New(50, 50)
		solid.Fill(solid.Bounds())
		_, err := Build(context.Background(), Job{Sources: []Source{{Bitmap: solid}}}, braille.Fallback{}, DefaultOptions())

		var de *errors.DensityError
		if !stderrors.As(err, &de) {
			t.Fatalf("Build() error = %v, want DensityError", err)
		}
		if de.Achieved != 1 || de.Limit != 0.45 {
			t.Errorf("DensityError = %+v", de)
		}
	})

	t.Run("regulated bitmap is kept", func(t *testing.T) {
		l, err := Build(context.Background(), Job{Sources: []Source{{Bitmap: stripes()}}}, braille.Fallback{}, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if got := l.Bitmaps[0].Fraction(); got > 0.30 {
			t.Errorf("kept bitmap fraction = %v, want regulated", got)
		}
	})
}

func TestBuildScalesRegions(t *testing.T) {
	opts := DefaultOptions()
	opts.Scale = 0.5
	job := Job{
		Sources: []Source{{Bitmap: sparse(1000, 800)}},
		Regions: []placement.Region{region("Porch", 400, 400, 0)},
	}
	l, err := Build(context.Background(), job, braille.Fallback{}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if l.Bitmaps[0].Width != 500 || l.Pages[0].Region != image.Rect(0, 0, 500, 400) {
		t.Errorf("scaled artwork = %dx%d", l.Bitmaps[0].Width, l.Bitmaps[0].Height)
	}
	if got := l.Labels[0].Anchor; got != (geom.Point{X: 205, Y: 190}) {
		t.Errorf("anchor = %v, want scaled box plus offset", got)
	}
}

func TestBuildSourceDPI(t *testing.T) {
	job := Job{Sources: []Source{{Bitmap: sparse(600, 600), DPI: 150}}}
	l, err := Build(context.Background(), job, braille.Fallback{}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if l.Bitmaps[0].Width != 1200 {
		t.Errorf("width = %d, want resampled to 300 DPI", l.Bitmaps[0].Width)
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	good := Job{Sources: []Source{{Bitmap: sparse(100, 100)}}}

	tests := []struct {
		name string
		job  Job
		opts func(*Options)
		code errors.Code
	}{
		{"zero dpi", good, func(o *Options) { o.DPI = 0 }, errors.ErrCodeInvalidConfig},
		{"bad grade", good, func(o *Options) { o.Grade = 3 }, errors.ErrCodeInvalidConfig},
		{"target above one", good, func(o *Options) { o.Density.Target = 1.5 }, errors.ErrCodeInvalidConfig},
		{"safety below target", good, func(o *Options) { o.Density.Safety = 0.1 }, errors.ErrCodeInvalidConfig},
		{"overlap half", good, func(o *Options) { o.Tiling.Overlap = 0.5 }, errors.ErrCodeInvalidConfig},
		{"no sources", Job{}, func(*Options) {}, errors.ErrCodeInvalidInput},
		{"region page out of range", Job{
			Sources: good.Sources,
			Regions: []placement.Region{region("x", 0, 0, 3)},
		}, func(*Options) {}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.opts(&opts)
			_, err := Build(context.Background(), tt.job, braille.Fallback{}, opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Build() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, Job{Sources: []Source{{Bitmap: sparse(100, 100)}}}, braille.Fallback{}, DefaultOptions())
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestBuildTiledLabelsStayOnSheet(t *testing.T) {
	job := Job{
		Sources: []Source{{Bitmap: sparse(6000, 8000)}},
		Regions: []placement.Region{
			region("Conference Room", 2395, 110, 0),
			region("Lobby", 4700, 2990, 0),
		},
	}
	l, err := Build(context.Background(), job, braille.Fallback{}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	seen := 0
	for _, p := range l.Pages {
		if p.Kind != KindTile {
			continue
		}
		sheet := geom.R(0, 0, geom.Pixels(p.Region.Dx()), geom.Pixels(p.Region.Dy()))
		for _, lab := range p.Labels {
			seen++
			if !lab.Box.Within(sheet) {
				t.Errorf("tile %d: label %q box %+v runs off the sheet", p.Tile.Index, lab.Text, lab.Box)
			}
			if lab.Text == "Conference Room" && p.Tile.Index != 1 {
				t.Errorf("%q on tile %d, want tile 1", lab.Text, p.Tile.Index)
			}
		}
	}
	if seen != 2 {
		t.Errorf("rendered %d labels, want 2", seen)
	}
}

func TestBuildGradeDowngradeWarning(t *testing.T) {
	job := Job{
		Sources: []Source{{Bitmap: sparse(500, 500)}},
		Regions: []placement.Region{region("the and for", 100, 100, 0)},
	}

	tests := []struct {
		name  string
		grade braille.Grade
		tr    braille.Translator
		want  bool
	}{
		{"grade 1", braille.Grade1, braille.Fallback{}, false},
		{"grade 2 fallback", braille.Grade2, braille.Fallback{}, true},
		{"grade 2 capable", braille.Grade2, braille.TranslatorFunc(braille.Fallback{}.Translate), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Grade = tt.grade
			l, err := Build(context.Background(), job, tt.tr, opts)
			if err != nil {
				t.Fatal(err)
			}
			got := false
			for _, w := range l.Warnings {
				if w.Code == errors.ErrCodeGradeDowngraded {
					got = true
					if w.Page != -1 {
						t.Errorf("warning page = %d, want -1", w.Page)
					}
				}
			}
			if got != tt.want {
				t.Errorf("downgrade warning = %v, want %v (warnings %+v)", got, tt.want, l.Warnings)
			}
		})
	}
}
