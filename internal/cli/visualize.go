package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	tio "github.com/matzehuels/tactile/pkg/io"
	"github.com/matzehuels/tactile/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render output from a computed layout",
		Long: `Render output from a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it to PDF, PNG or JSON. The layout contains all positioning
information, so this step is purely about rendering. Regulated artwork is
read from the <layout>.artwork-N.png files next to it; without them only
labels, marks and captions are drawn.

Results are cached locally for faster subsequent runs.

Use 'render' as a shortcut to go directly from bitmaps to output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): pdf (default), png, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.FontSize, "font-size", 0, "braille size in points (default 10)")
	cmd.Flags().IntVar(&opts.PreviewWidth, "preview-width", 0, "width of each page in the png preview (default 800)")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	l, err := tio.ImportLayout(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	if len(l.Bitmaps) == 0 {
		printWarning("No artwork found next to %s; rendering labels only", input)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d pages...", len(l.Pages)))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  cacheHit,
	})
}
