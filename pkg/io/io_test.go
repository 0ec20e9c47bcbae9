package io

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/layout"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/core/raster"
	"github.com/matzehuels/tactile/pkg/errors"
)

func testBitmap() *raster.Bitmap {
	b := raster.New(20, 10)
	b.Fill(image.Rect(2, 2, 8, 6))
	b.Set(19, 9, true)
	return b
}

func TestReadBitmap(t *testing.T) {
	want := testBitmap()

	encoders := []struct {
		format string
		encode func(*bytes.Buffer) error
	}{
		{"png", func(w *bytes.Buffer) error { return WriteBitmap(want, w) }},
		{"tiff", func(w *bytes.Buffer) error { return tiff.Encode(w, want.Image(), nil) }},
		{"bmp", func(w *bytes.Buffer) error { return bmp.Encode(w, want.Image()) }},
	}
	for _, tt := range encoders {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf); err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, format, err := ReadBitmap(&buf)
			if err != nil {
				t.Fatalf("ReadBitmap() error: %v", err)
			}
			if format != tt.format {
				t.Errorf("format = %q, want %q", format, tt.format)
			}
			if got.Width != want.Width || got.Height != want.Height {
				t.Fatalf("size = %dx%d, want %dx%d", got.Width, got.Height, want.Width, want.Height)
			}
			if !bytes.Equal(got.Pix, want.Pix) {
				t.Errorf("pixels differ: %d raised, want %d", got.Count(), want.Count())
			}
		})
	}
}

func TestReadBitmapInvalid(t *testing.T) {
	_, _, err := ReadBitmap(strings.NewReader("not an image"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("got %v, want INVALID_INPUT", err)
	}
}

func TestImportBitmapMissing(t *testing.T) {
	_, err := ImportBitmap(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("got %v, want FILE_NOT_FOUND", err)
	}
}

func TestExportImportBitmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "art.png")
	want := testBitmap()
	if err := ExportBitmap(want, path); err != nil {
		t.Fatalf("ExportBitmap() error: %v", err)
	}
	got, err := ImportBitmap(path)
	if err != nil {
		t.Fatalf("ImportBitmap() error: %v", err)
	}
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Error("pixels differ after export/import")
	}
}

func TestReadDetections(t *testing.T) {
	input := `{"regions": [
		{"text": "Kitchen", "x": 100, "y": 100, "width": 50, "height": 20, "confidence": 0.9},
		{"text": "Pantry", "x": 10, "y": 5, "width": 30, "height": 12, "page": 1}
	]}`

	regions, err := ReadDetections(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadDetections() error: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}
	if regions[0].Text != "Kitchen" || regions[0].Box != geom.R(100, 100, 50, 20) {
		t.Errorf("region 0 = %+v", regions[0])
	}
	if regions[0].Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", regions[0].Confidence)
	}
	if regions[1].Confidence != 1 {
		t.Errorf("missing confidence = %v, want 1", regions[1].Confidence)
	}
	if regions[1].Page != 1 {
		t.Errorf("page = %d, want 1", regions[1].Page)
	}
}

func TestReadDetectionsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"regions": [`},
		{"negativeWidth", `{"regions": [{"text": "a", "width": -1, "height": 2}]}`},
		{"negativePage", `{"regions": [{"text": "a", "width": 1, "height": 2, "page": -1}]}`},
		{"confidenceAboveOne", `{"regions": [{"text": "a", "width": 1, "height": 2, "confidence": 1.5}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDetections(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("got %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestDetectionsRoundTrip(t *testing.T) {
	want := []placement.Region{
		{Text: "Hall", Box: geom.R(1, 2, 3, 4), Confidence: 0.5, Rotation: 90, Page: 2},
	}
	path := filepath.Join(t.TempDir(), "detections.json")
	if err := ExportDetections(want, path); err != nil {
		t.Fatalf("ExportDetections() error: %v", err)
	}
	got, err := ImportDetections(path)
	if err != nil {
		t.Fatalf("ImportDetections() error: %v", err)
	}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func testLayout() *layout.Layout {
	art := testBitmap()
	lb := placement.Label{Text: "ab", Glyphs: "⠁⠃", Box: geom.R(2, 3, 4, 5), Outcome: placement.Repositioned}
	return &layout.Layout{
		JobID: "job",
		DPI:   300,
		Paper: geom.Letter,
		Pages: []layout.Page{
			{Number: 1, Kind: layout.KindArtwork, Source: 0, Paper: geom.Letter, Region: art.Bounds(), Labels: []placement.Label{lb}},
		},
		Labels:  []placement.Label{lb},
		Bitmaps: []*raster.Bitmap{art},
	}
}

func TestExportImportLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	want := testLayout()
	if err := ExportLayout(want, path); err != nil {
		t.Fatalf("ExportLayout() error: %v", err)
	}
	if _, err := os.Stat(ArtworkPath(path, 0)); err != nil {
		t.Fatalf("artwork file missing: %v", err)
	}

	got, err := ImportLayout(path)
	if err != nil {
		t.Fatalf("ImportLayout() error: %v", err)
	}
	if got.JobID != "job" || len(got.Pages) != 1 {
		t.Fatalf("layout = %+v", got)
	}
	if got.Pages[0].Region != image.Rect(0, 0, 20, 10) {
		t.Errorf("region = %v", got.Pages[0].Region)
	}
	if got.Labels[0].Outcome != placement.Repositioned {
		t.Errorf("outcome = %v, want repositioned", got.Labels[0].Outcome)
	}
	if len(got.Bitmaps) != 1 || !bytes.Equal(got.Bitmaps[0].Pix, want.Bitmaps[0].Pix) {
		t.Error("artwork not re-attached")
	}
}

func TestImportLayoutWithoutArtwork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	l := testLayout()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteLayout(l, f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := ImportLayout(path)
	if err != nil {
		t.Fatalf("ImportLayout() error: %v", err)
	}
	if got.Bitmaps != nil {
		t.Errorf("Bitmaps = %v, want nil", got.Bitmaps)
	}
}

func TestReadLayoutEmpty(t *testing.T) {
	if _, err := ReadLayout(strings.NewReader(`{"pages": []}`)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("got %v, want INVALID_INPUT", err)
	}
}

func TestArtworkPath(t *testing.T) {
	if got := ArtworkPath(filepath.Join("out", "plan.json"), 2); got != filepath.Join("out", "plan.artwork-2.png") {
		t.Errorf("ArtworkPath = %q", got)
	}
}
