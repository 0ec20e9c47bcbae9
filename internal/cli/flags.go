package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tactile/pkg/config"
	"github.com/matzehuels/tactile/pkg/core/layout"
	"github.com/matzehuels/tactile/pkg/ocr"
	"github.com/matzehuels/tactile/pkg/pipeline"
)

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags binds the layout settings shared by layout and render. Zero
// values mean "take it from the preset"; anything still unset after the
// preset falls back to the pipeline defaults.
type layoutFlags struct {
	opts    pipeline.Options
	order   string
	overlap float64
	preset  string
	presets string
}

// register adds the layout flags to cmd.
func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.preset, "preset", "", "layout preset (default: the presets file default)")
	fs.StringVar(&f.presets, "presets", "", "presets file (default: $XDG_CONFIG_HOME/tactile/presets.toml)")

	// Sheet
	fs.StringVar(&f.opts.Paper, "paper", "", "paper size: letter, tabloid, a4, a3")
	fs.Float64Var(&f.opts.DPI, "dpi", 0, "production resolution (default 300)")
	fs.Float64Var(&f.opts.Scale, "scale", 0, "artwork scale factor (default 1)")
	fs.Float64Var(&f.opts.FontSize, "font-size", 0, "braille size in points (default 10)")
	fs.IntVar(&f.opts.Grade, "grade", 0, "braille grade: 1 (default) or 2")

	// Density
	fs.Float64Var(&f.opts.Target, "density-target", 0, "target raised fraction (default 0.30)")
	fs.Float64Var(&f.opts.Safety, "density-safety", 0, "maximum raised fraction before failing (default 0.45)")
	fs.IntVar(&f.opts.MaxIterations, "max-iterations", 0, "maximum erosion passes (default 10)")
	fs.BoolVar(&f.opts.NoRegulate, "no-regulate", false, "measure density without thinning the artwork")

	// Placement
	fs.StringVar(&f.order, "order", "", "candidate directions, comma-separated (default original,below,above,right,left)")
	fs.IntVar(&f.opts.MaxLength, "max-length", 0, "truncate label text to this many characters (default 30)")
	fs.BoolVar(&f.opts.NoSymbols, "no-symbols", false, "drop labels that do not fit instead of replacing them with symbols")

	// Tiling
	fs.Float64Var(&f.overlap, "overlap", pipeline.DefaultOverlap, "fraction of each sheet shared with its neighbours")
	fs.StringVar(&f.opts.TieBreak, "tie-break", "", "owner of labels in overlap strips: top-left (default), core")
	fs.BoolVar(&f.opts.NoMarks, "no-marks", false, "omit registration marks on tiles")
}

// resolve returns the options for cmd: explicit flags first, then the
// preset, then the pipeline defaults (applied later by the runner).
func (f *layoutFlags) resolve(cmd *cobra.Command) (pipeline.Options, error) {
	opts := f.opts
	if f.order != "" {
		opts.Order = strings.Split(f.order, ",")
	}
	if cmd.Flags().Changed("overlap") {
		v := f.overlap
		opts.Overlap = &v
	}

	presets, err := config.Load(f.presets)
	if err != nil {
		return pipeline.Options{}, err
	}
	p, err := presets.Get(f.preset)
	if err != nil {
		return pipeline.Options{}, err
	}
	p.Apply(&opts)
	return opts, nil
}

// =============================================================================
// Input Flags
// =============================================================================

// inputFlags selects where text regions come from.
type inputFlags struct {
	detections string
	sourceDPI  float64
	useOCR     bool
	language   string
}

// register adds the input flags to cmd.
func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.detections, "detections", "d", "", "detections file (JSON text regions)")
	fs.Float64Var(&f.sourceDPI, "source-dpi", 0, "resolution the bitmaps were scanned at (default: the production dpi)")
	fs.BoolVar(&f.useOCR, "ocr", false, "detect text with Tesseract instead of reading a detections file")
	fs.StringVar(&f.language, "lang", "eng", "Tesseract language for --ocr")
}

// load reads the bitmaps and regions of one job.
func (f *inputFlags) load(ctx context.Context, bitmaps []string) (layout.Job, error) {
	if f.useOCR && f.detections != "" {
		return layout.Job{}, fmt.Errorf("--ocr and --detections are mutually exclusive")
	}
	job, err := pipeline.LoadJob(bitmaps, f.detections, f.sourceDPI)
	if err != nil {
		return layout.Job{}, err
	}
	if !f.useOCR {
		return job, nil
	}

	opts := ocr.DefaultOptions()
	opts.Language = f.language
	engine := ocr.New(opts)
	for i, src := range job.Sources {
		regions, err := engine.Detect(ctx, src.Bitmap, i)
		if err != nil {
			return layout.Job{}, fmt.Errorf("detect text in %s: %w", bitmaps[i], err)
		}
		job.Regions = append(job.Regions, regions...)
	}
	return job, nil
}
