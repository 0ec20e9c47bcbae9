package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tactile/pkg/core/layout"
	"github.com/matzehuels/tactile/pkg/pipeline"
)

// renderCommand creates the render command, which runs the whole pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		refresh    bool
		each       bool
		jobs       int
		preview    int
		input      inputFlags
		flags      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [bitmap.png...]",
		Short: "Lay out and render a tactile graphic in one step",
		Long: `Lay out and render a tactile graphic in one step.

The render command is a shortcut for 'layout' followed by 'visualize'. All
bitmaps are pages of one graphic unless --each is given, in which case every
bitmap is a separate graphic, rendered concurrently (-j at a time). With
--each, text regions are read from <bitmap>.detections.json when present and
--output names a directory.

Output formats are pdf (swell paper), png (preview) and json (page model).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.PreviewWidth = preview
			opts.Refresh = refresh
			if each {
				return c.runRenderEach(cmd.Context(), args, input, opts, output, noCache, jobs)
			}
			return c.runRender(cmd.Context(), args, input, opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached results exist")
	cmd.Flags().BoolVar(&each, "each", false, "treat every bitmap as a separate graphic")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", pipeline.DefaultBatchLimit, "graphics rendered concurrently with --each")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): pdf (default), png, json (comma-separated)")
	cmd.Flags().IntVar(&preview, "preview-width", 0, "width of each page in the png preview (default 800)")

	input.register(cmd)
	flags.register(cmd)

	return cmd
}

// runRender lays out and renders all bitmaps as the pages of one graphic.
func (c *CLI) runRender(ctx context.Context, bitmaps []string, input inputFlags, opts pipeline.Options, output string, noCache bool) error {
	job, err := input.load(ctx, bitmaps)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d page(s)...", len(job.Sources)))
	spinner.Start()

	result, err := runner.Execute(ctx, job, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     bitmaps[0],
		output:    output,
		cacheHit:  result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	}); err != nil {
		return err
	}
	printLayout(result.Layout, result.CacheInfo.LayoutHit)
	return nil
}

// runRenderEach renders every bitmap as its own graphic.
func (c *CLI) runRenderEach(ctx context.Context, bitmaps []string, input inputFlags, opts pipeline.Options, output string, noCache bool, limit int) error {
	if input.detections != "" {
		return fmt.Errorf("--detections cannot be combined with --each; use <bitmap>.detections.json")
	}
	if output != "" {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	jobs := make([]layout.Job, len(bitmaps))
	for i, path := range bitmaps {
		in := input
		if det := detectionsPath(path); !in.useOCR && fileExists(det) {
			in.detections = det
		}
		job, err := in.load(ctx, []string{path})
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		jobs[i] = job
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d graphics...", len(jobs)))
	spinner.Start()

	results, err := runner.ExecuteBatch(ctx, jobs, opts, limit)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	for i, res := range results {
		out := ""
		if output != "" {
			out = filepath.Join(output, filepath.Base(basePath("", bitmaps[i])))
		}
		if err := writeArtifacts(artifactWriteParams{
			artifacts: res.Artifacts,
			formats:   opts.Formats,
			input:     bitmaps[i],
			output:    out,
			multi:     true,
			cacheHit:  res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit,
		}); err != nil {
			return err
		}
		printSummary(res.Layout.Summary, res.CacheInfo.LayoutHit)
	}
	prog.done(fmt.Sprintf("Rendered %d graphics", len(results)))
	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams describes rendered artifacts and where they go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // source file, used to derive output names
	output    string // explicit output file or base path
	multi     bool   // always derive <base>.<format>, even for one format
	cacheHit  bool
}

// writeArtifacts writes each artifact to its output path. A single format
// with an explicit output goes exactly there; otherwise files are named
// <base>.<format>.
func writeArtifacts(p artifactWriteParams) error {
	single := len(p.formats) == 1 && p.output != "" && !p.multi
	base := basePath(p.output, p.input)

	var written []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return fmt.Errorf("no %s output rendered", format)
		}
		path := base + "." + format
		if single {
			path = p.output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	if p.cacheHit {
		printSuccess("Rendered %s %s", strings.Join(p.formats, ", "), styleCached.Render("("+iconCached+")"))
	} else {
		printSuccess("Rendered %s", strings.Join(p.formats, ", "))
	}
	for _, path := range written {
		printFile(path)
	}
	return nil
}

// detectionsPath returns <bitmap>.detections.json.
func detectionsPath(bitmap string) string {
	return strings.TrimSuffix(bitmap, filepath.Ext(bitmap)) + ".detections.json"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
