// Package ocr detects text regions in artwork bitmaps.
//
// Detection uses the Tesseract engine via gosseract and is optional: it
// requires Tesseract on the system and the "ocr" build tag:
//
//	go build -tags ocr ./cmd/tactile
//
// Without the tag, [Engine.Detect] fails with an OCR_UNAVAILABLE error and
// callers supply regions from a detections file instead. Filtering of raw
// word boxes ([Filter]) is always available.
package ocr

import (
	"regexp"
	"strings"

	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/errors"
)

// Page segmentation modes passed to Tesseract.
const (
	PSMAuto        = 3  // Fully automatic page segmentation
	PSMSingleBlock = 6  // Single uniform block of text
	PSMSparseText  = 11 // As much text as possible, in no particular order
)

// DefaultMinConfidence is the lowest word confidence (0-100) kept.
const DefaultMinConfidence = 60

// DefaultDimensionPatterns match architectural dimensions such as 10'-6",
// 3.5m or 120 mm. Dimensions are not room labels and are dropped by default.
var DefaultDimensionPatterns = []string{
	`^\d+'\s*-?\s*\d*"?$`,
	`^\d+(\.\d+)?\s*(mm|cm|m|ft|in)$`,
	`^\d+(\.\d+)?\s*[xX×]\s*\d+(\.\d+)?$`,
}

// Options configures detection.
type Options struct {
	Language          string   `toml:"language" json:"language,omitempty"`
	PageSegMode       int      `toml:"psm" json:"psm,omitempty"`
	MinConfidence     float64  `toml:"min_confidence" json:"min_confidence,omitempty"`
	KeepDimensions    bool     `toml:"keep_dimensions" json:"keep_dimensions,omitempty"`
	DimensionPatterns []string `toml:"dimension_patterns" json:"dimension_patterns,omitempty"`
}

// DefaultOptions returns English, fully automatic segmentation and the
// default confidence threshold and dimension patterns.
func DefaultOptions() Options {
	return Options{
		Language:          "eng",
		PageSegMode:       PSMAuto,
		MinConfidence:     DefaultMinConfidence,
		DimensionPatterns: DefaultDimensionPatterns,
	}
}

// Word is a raw word box as reported by the engine, in bitmap pixels.
type Word struct {
	Text       string
	Box        geom.Rect
	Confidence float64 // 0-100
}

// Filter turns raw words into label regions on the given logical page.
// Words below the confidence threshold, blank words and (unless kept)
// dimensions are dropped. Region confidence is scaled to 0-1.
func Filter(words []Word, page int, opts Options) ([]placement.Region, error) {
	if err := errors.ValidateFraction("min confidence", opts.MinConfidence, 0, 100); err != nil {
		return nil, err
	}
	dims, err := compile(opts)
	if err != nil {
		return nil, err
	}

	regions := make([]placement.Region, 0, len(words))
	for _, w := range words {
		text := strings.Join(strings.Fields(w.Text), " ")
		if text == "" || w.Confidence < opts.MinConfidence {
			continue
		}
		if w.Box.W <= 0 || w.Box.H <= 0 {
			continue
		}
		if isDimension(text, dims) {
			continue
		}
		regions = append(regions, placement.Region{
			Text:       text,
			Box:        w.Box,
			Confidence: w.Confidence / 100,
			Page:       page,
		})
	}
	return regions, nil
}

func compile(opts Options) ([]*regexp.Regexp, error) {
	if opts.KeepDimensions {
		return nil, nil
	}
	res := make([]*regexp.Regexp, 0, len(opts.DimensionPatterns))
	for _, p := range opts.DimensionPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid dimension pattern %q", p)
		}
		res = append(res, re)
	}
	return res, nil
}

func isDimension(text string, dims []*regexp.Regexp) bool {
	for _, re := range dims {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
