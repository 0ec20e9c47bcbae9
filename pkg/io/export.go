package io

import (
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/tactile/pkg/core/layout"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/core/raster"
)

// WriteBitmap encodes b as a black-on-white PNG.
func WriteBitmap(b *raster.Bitmap, w io.Writer) error {
	return png.Encode(w, b.Image())
}

// ExportBitmap writes b to a PNG file at path.
func ExportBitmap(b *raster.Bitmap, path string) error {
	return create(path, func(w io.Writer) error { return WriteBitmap(b, w) })
}

// WriteDetections encodes regions in the format read by [ReadDetections].
func WriteDetections(regions []placement.Region, w io.Writer) error {
	out := detections{Regions: make([]region, len(regions))}
	for i, r := range regions {
		conf := r.Confidence
		out.Regions[i] = region{
			Text:       r.Text,
			X:          float64(r.Box.X),
			Y:          float64(r.Box.Y),
			Width:      float64(r.Box.W),
			Height:     float64(r.Box.H),
			Confidence: &conf,
			Rotation:   r.Rotation,
			Page:       r.Page,
		}
	}
	return encode(w, out)
}

// ExportDetections writes regions to a JSON file at path.
func ExportDetections(regions []placement.Region, path string) error {
	return create(path, func(w io.Writer) error { return WriteDetections(regions, w) })
}

// WriteLayout encodes the page model as indented JSON. Artwork is not
// included; see [ExportLayout].
func WriteLayout(l *layout.Layout, w io.Writer) error {
	return encode(w, l)
}

// ExportLayout writes the layout to path and the regulated artwork of each
// logical page to [ArtworkPath].
func ExportLayout(l *layout.Layout, path string) error {
	if err := create(path, func(w io.Writer) error { return WriteLayout(l, w) }); err != nil {
		return err
	}
	for i, b := range l.Bitmaps {
		if b == nil {
			continue
		}
		if err := ExportBitmap(b, ArtworkPath(path, i)); err != nil {
			return fmt.Errorf("artwork %d: %w", i, err)
		}
	}
	return nil
}

// ArtworkPath returns the file holding the artwork of logical page i for the
// layout stored at path.
func ArtworkPath(path string, i int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s.artwork-%d.png", strings.TrimSuffix(path, ext), i)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func create(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
