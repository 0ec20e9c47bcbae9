package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tactile/pkg/core/layout"
	tio "github.com/matzehuels/tactile/pkg/io"
	"github.com/matzehuels/tactile/pkg/pipeline"
)

// layoutCommand creates the layout command for computing the page model.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		input   inputFlags
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [bitmap.png...]",
		Short: "Compute the page layout of a tactile graphic",
		Long: `Compute the page layout of a tactile graphic.

The layout command takes one bitmap per logical page plus the text regions
detected on them (--detections, or --ocr) and computes the page model:
regulated artwork, placed braille labels, tiles and the symbol key. The
output is a layout.json file (same format as 'render -f json') with the
regulated artwork next to it, ready for 'visualize' or 'review'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), args, input, opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached layout exists")

	input.register(cmd)
	flags.register(cmd)

	return cmd
}

// runLayout loads the job, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, bitmaps []string, input inputFlags, opts pipeline.Options, output string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %d page(s)...", len(job.Sources)))
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, job, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = layoutPath(bitmaps[0])
	}

	if err := tio.ExportLayout(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printLayout(l, cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}

// layoutPath returns <input>.layout.json.
func layoutPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}

// printLayout prints the summary, density and warnings of l.
func printLayout(l *layout.Layout, cached bool) {
	printSummary(l.Summary, cached)
	printDensity(l.Summary.Density)
	printWarnings(l.Warnings)
}
