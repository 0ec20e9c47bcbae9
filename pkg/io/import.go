package io

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/layout"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/core/raster"
	"github.com/matzehuels/tactile/pkg/errors"
)

type detections struct {
	Regions []region `json:"regions"`
}

type region struct {
	Text       string   `json:"text"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Confidence *float64 `json:"confidence,omitempty"`
	Rotation   float64  `json:"rotation,omitempty"`
	Page       int      `json:"page,omitempty"`
}

// ReadBitmap decodes an image from r and returns its raised plane together
// with the name of the detected format.
func ReadBitmap(r io.Reader) (*raster.Bitmap, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "decode image")
	}
	if img.Bounds().Empty() {
		return nil, format, errors.New(errors.ErrCodeInvalidInput, "image is empty")
	}
	return raster.FromImage(img), format, nil
}

// ImportBitmap reads the image file at path.
func ImportBitmap(path string) (*raster.Bitmap, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, _, err := ReadBitmap(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// ReadDetections decodes detection JSON from r.
//
// Regions are returned in file order, which is the order they are resolved
// in. ReadDetections does not close r.
func ReadDetections(r io.Reader) ([]placement.Region, error) {
	var data detections
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode detections")
	}

	out := make([]placement.Region, 0, len(data.Regions))
	for i, d := range data.Regions {
		if d.Width < 0 || d.Height < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "region %d: negative size %vx%v", i, d.Width, d.Height)
		}
		if d.Page < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "region %d: negative page %d", i, d.Page)
		}
		conf := 1.0
		if d.Confidence != nil {
			conf = *d.Confidence
		}
		if err := errors.ValidateFraction(fmt.Sprintf("region %d confidence", i), conf, 0, 1); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "region %d", i)
		}
		out = append(out, placement.Region{
			Text:       d.Text,
			Box:        geom.R(geom.Pixels(d.X), geom.Pixels(d.Y), geom.Pixels(d.Width), geom.Pixels(d.Height)),
			Confidence: conf,
			Rotation:   d.Rotation,
			Page:       d.Page,
		})
	}
	return out, nil
}

// ImportDetections reads the detection file at path.
func ImportDetections(path string) ([]placement.Region, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	regions, err := ReadDetections(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return regions, nil
}

// ReadLayout decodes a layout written by [WriteLayout]. The result carries no
// artwork.
func ReadLayout(r io.Reader) (*layout.Layout, error) {
	var l layout.Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout")
	}
	if len(l.Pages) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout has no pages")
	}
	return &l, nil
}

// ImportLayout reads the layout at path and attaches the artwork files that
// [ExportLayout] wrote next to it. Missing artwork files are not an error.
func ImportLayout(path string) (*layout.Layout, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := ReadLayout(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	sources := 0
	for _, p := range l.Pages {
		sources = max(sources, p.Source+1)
	}
	for i := 0; i < sources; i++ {
		b, err := ImportBitmap(ArtworkPath(path, i))
		if errors.Is(err, errors.ErrCodeFileNotFound) {
			l.Bitmaps = nil
			break
		}
		if err != nil {
			return nil, err
		}
		l.Bitmaps = append(l.Bitmaps, b)
	}
	return l, nil
}

// open opens path, reporting a missing file as FILE_NOT_FOUND.
func open(path string) (*os.File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
