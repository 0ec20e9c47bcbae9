// Package pipeline runs layout jobs for the CLI and the HTTP server.
//
// This package implements the complete load → layout → render flow. By
// centralizing it, both entry points apply the same defaults, validation,
// caching and logging.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read artwork bitmaps and detected regions into a [layout.Job]
//  2. Layout: Regulate density, place labels, tile, and assemble pages
//  3. Render: Generate output in various formats (PDF, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	job, err := pipeline.LoadJob([]string{"plan.png"}, "plan.json", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, job, pipeline.Options{
//	    Paper:   "tabloid",
//	    Formats: []string{"pdf"},
//	})
//	pdf := result.Artifacts["pdf"]
//
// Run individual stages:
//
//	// Layout only
//	l, err := runner.Layout(ctx, job, opts)
//
//	// Render an existing layout
//	artifacts, err := runner.Render(ctx, l, opts)
//
// [layout.Job]: github.com/matzehuels/tactile/pkg/core/layout.Job
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tactile/pkg/cache"
	"github.com/matzehuels/tactile/pkg/core/braille"
	"github.com/matzehuels/tactile/pkg/core/density"
	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/layout"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/core/tiling"
	"github.com/matzehuels/tactile/pkg/errors"
	"github.com/matzehuels/tactile/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultPaper is the sheet format used when none is given.
	DefaultPaper = "letter"

	// DefaultDPI is the production resolution of swell-paper printers.
	DefaultDPI = layout.DefaultDPI

	// DefaultFontSize is the braille label size in points.
	DefaultFontSize = float64(placement.DefaultFontSize)

	// DefaultOverlap is the fraction of each sheet shared with its neighbours.
	DefaultOverlap = 0.1

	// DefaultTieBreak decides which tile owns a label in an overlap strip.
	DefaultTieBreak = "top-left"

	// DefaultBatchLimit bounds concurrent jobs in ExecuteBatch.
	DefaultBatchLimit = 4
)

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests. Zero values
// select the defaults above.
type Options struct {
	// Sheet options
	Paper    string  `json:"paper,omitempty"`
	DPI      float64 `json:"dpi,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`
	Grade    int     `json:"grade,omitempty"`

	// Density options
	Target        float64 `json:"density_target,omitempty"`
	Safety        float64 `json:"density_safety,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`
	NoRegulate    bool    `json:"no_regulate,omitempty"` // measure density without eroding

	// Placement options
	Order     []string `json:"order,omitempty"`
	MaxLength int      `json:"max_length,omitempty"`
	NoSymbols bool     `json:"no_symbols,omitempty"`

	// Tiling options
	Overlap  *float64 `json:"overlap,omitempty"`
	TieBreak string   `json:"tie_break,omitempty"`
	NoMarks  bool     `json:"no_marks,omitempty"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	PreviewWidth int      `json:"preview_width,omitempty"`
	Refresh      bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger     *log.Logger        `json:"-"`
	Translator braille.Translator `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed page model.
	Layout *layout.Layout

	// InputHash identifies the artwork and regions of the job.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Sources    int
	Regions    int
	Pages      int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid format: %q (must be one of: pdf, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePaper checks that a paper name is known.
func ValidatePaper(name string) error {
	return errors.ValidatePaperName(name, geom.PaperNames())
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Paper == "" {
		o.Paper = DefaultPaper
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.Grade == 0 {
		o.Grade = int(braille.Grade1)
	}
	if o.Target == 0 {
		o.Target = density.DefaultTarget
	}
	if o.Safety == 0 {
		o.Safety = density.DefaultSafety
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = density.DefaultMaxIterations
	}
	if o.MaxLength == 0 {
		o.MaxLength = placement.DefaultMaxLength
	}
	if o.Overlap == nil {
		v := DefaultOverlap
		o.Overlap = &v
	}
	if o.TieBreak == "" {
		o.TieBreak = DefaultTieBreak
	}
	if o.Translator == nil {
		o.Translator = braille.Fallback{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidatePaper(o.Paper); err != nil {
		return err
	}
	_, err := o.LayoutOptions()
	return err
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPDF}
	}
	if o.PreviewWidth == 0 {
		o.PreviewWidth = sink.DefaultPreviewWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.PreviewWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "preview width must not be negative, got %d", o.PreviewWidth)
	}
	return nil
}

// LayoutOptions converts the options into engine options and validates them.
// Defaults must have been applied.
func (o *Options) LayoutOptions() (layout.Options, error) {
	paper, ok := geom.PaperByName(o.Paper)
	if !ok {
		return layout.Options{}, ValidatePaper(o.Paper)
	}
	if err := errors.ValidatePositive("dpi", o.DPI); err != nil {
		return layout.Options{}, err
	}
	if err := errors.ValidatePositive("font size", o.FontSize); err != nil {
		return layout.Options{}, err
	}

	lo := layout.DefaultOptions()
	lo.Paper = paper
	lo.DPI = o.DPI
	lo.Scale = o.Scale
	lo.FontSize = geom.Points(o.FontSize)
	lo.Grade = braille.Grade(o.Grade)
	lo.Density = layout.DensityOptions{
		Target:        o.Target,
		Safety:        o.Safety,
		MaxIterations: o.MaxIterations,
	}
	if o.NoRegulate {
		lo.Density.MaxIterations = 0
	}

	lo.Placement = placement.NewOptions(lo.FontSize, lo.DPI)
	lo.Placement.MaxLength = o.MaxLength
	lo.Placement.UseSymbols = !o.NoSymbols
	if len(o.Order) > 0 {
		lo.Placement.Order = make([]placement.Direction, len(o.Order))
		for i, s := range o.Order {
			d, err := placement.ParseDirection(strings.TrimSpace(s))
			if err != nil {
				return layout.Options{}, err
			}
			lo.Placement.Order[i] = d
		}
	}

	lo.Tiling = tiling.DefaultConfig(lo.PaperPixels())
	if o.Overlap != nil {
		lo.Tiling.Overlap = *o.Overlap
	}
	lo.Tiling.NoMarks = o.NoMarks
	tb, err := tiling.ParseTieBreak(o.TieBreak)
	if err != nil {
		return layout.Options{}, err
	}
	lo.Tiling.TieBreak = tb

	if err := lo.Validate(); err != nil {
		return layout.Options{}, err
	}
	return lo, nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Paper:         strings.ToLower(o.Paper),
		DPI:           o.DPI,
		Scale:         o.Scale,
		FontSize:      o.FontSize,
		Grade:         o.Grade,
		Target:        o.Target,
		Safety:        o.Safety,
		MaxIterations: o.MaxIterations,
		TieBreak:      o.TieBreak,
		NoMarks:       o.NoMarks,
		Order:         o.Order,
		MaxLength:     o.MaxLength,
		NoSymbols:     o.NoSymbols,
		Translator:    fmt.Sprintf("%T", o.Translator),
	}
	if o.NoRegulate {
		k.MaxIterations = 0
	}
	if o.Overlap != nil {
		k.Overlap = *o.Overlap
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		k.Preview = o.PreviewWidth
	}
	return k
}
