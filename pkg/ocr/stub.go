//go:build !ocr

package ocr

import (
	"context"

	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/core/raster"
	"github.com/matzehuels/tactile/pkg/errors"
)

// Available reports whether Tesseract support was compiled in.
const Available = false

// Engine is the stub used when the "ocr" build tag is not set.
type Engine struct {
	opts Options
}

// New creates an engine whose Detect always fails.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Detect returns an OCR_UNAVAILABLE error. Rebuild with -tags ocr to enable
// detection.
func (e *Engine) Detect(ctx context.Context, b *raster.Bitmap, page int) ([]placement.Region, error) {
	return nil, errors.New(errors.ErrCodeOCRUnavailable, "text detection not enabled; rebuild with -tags ocr or pass a detections file")
}
