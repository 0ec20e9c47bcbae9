//go:build ocr

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/core/raster"
	"github.com/matzehuels/tactile/pkg/errors"
)

// Available reports whether Tesseract support was compiled in.
const Available = true

// Engine detects text regions with Tesseract.
type Engine struct {
	opts Options
}

// New creates an engine. Each Detect call uses its own Tesseract client, so
// an Engine is safe for concurrent use.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Detect finds word regions on one logical page of artwork.
func (e *Engine) Detect(ctx context.Context, b *raster.Bitmap, page int) ([]placement.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, b.Image()); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", page, err)
	}

	c := gosseract.NewClient()
	defer c.Close()

	if e.opts.Language != "" {
		if err := c.SetLanguage(e.opts.Language); err != nil {
			return nil, errors.Wrap(errors.ErrCodeOCRUnavailable, err, "set language %q", e.opts.Language)
		}
	}
	if e.opts.PageSegMode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(e.opts.PageSegMode)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeOCRUnavailable, err, "set page segmentation mode")
		}
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeOCRUnavailable, err, "recognize page %d", page)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := make([]Word, 0, len(boxes))
	for _, bb := range boxes {
		words = append(words, Word{
			Text: bb.Word,
			Box: geom.R(geom.Pixels(bb.Box.Min.X), geom.Pixels(bb.Box.Min.Y),
				geom.Pixels(bb.Box.Dx()), geom.Pixels(bb.Box.Dy())),
			Confidence: bb.Confidence,
		})
	}
	return Filter(words, page, e.opts)
}
