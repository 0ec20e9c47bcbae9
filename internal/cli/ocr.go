package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	tio "github.com/matzehuels/tactile/pkg/io"
	"github.com/matzehuels/tactile/pkg/ocr"
)

// ocrCommand creates the ocr command for detecting text regions.
func (c *CLI) ocrCommand() *cobra.Command {
	var output string
	opts := ocr.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "ocr [bitmap.png...]",
		Short: "Detect text regions and write a detections file",
		Long: `Detect text regions and write a detections file.

The ocr command runs Tesseract over each bitmap and writes the word boxes it
finds to <bitmap>.detections.json, the format read by --detections. Low
confidence words and dimensions (10'-6", 3.5m, 12x14) are dropped. Review and
edit the file before laying out; OCR is rarely perfect on drawings.

Requires a build with -tags ocr and Tesseract installed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return fmt.Errorf("--output needs a single bitmap")
			}
			return c.runOCR(cmd.Context(), args, opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <bitmap>.detections.json)")
	cmd.Flags().StringVar(&opts.Language, "lang", opts.Language, "Tesseract language")
	cmd.Flags().IntVar(&opts.PageSegMode, "psm", opts.PageSegMode, "Tesseract page segmentation mode")
	cmd.Flags().Float64Var(&opts.MinConfidence, "min-confidence", opts.MinConfidence, "lowest word confidence kept (0-100)")
	cmd.Flags().BoolVar(&opts.KeepDimensions, "keep-dimensions", false, "keep dimension strings")

	return cmd
}

// runOCR detects text on each bitmap and writes one detections file per bitmap.
func (c *CLI) runOCR(ctx context.Context, bitmaps []string, opts ocr.Options, output string) error {
	if !ocr.Available {
		return fmt.Errorf("text detection not available: rebuild with -tags ocr")
	}
	engine := ocr.New(opts)

	for _, path := range bitmaps {
		b, err := tio.ImportBitmap(path)
		if err != nil {
			return err
		}

		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Detecting text in %s...", path))
		spinner.Start()
		regions, err := engine.Detect(ctx, b, 0)
		if err != nil {
			spinner.StopWithError("Detection failed")
			return fmt.Errorf("detect %s: %w", path, err)
		}
		spinner.Stop()

		outputPath := output
		if outputPath == "" {
			outputPath = detectionsPath(path)
		}
		if err := tio.ExportDetections(regions, outputPath); err != nil {
			return fmt.Errorf("write output %s: %w", outputPath, err)
		}

		printSuccess("Detected %d regions", len(regions))
		printFile(outputPath)
		c.Logger.Debug("detected text", "bitmap", path, "regions", len(regions))
	}
	printNewline()
	printNextStep("Lay out", appName+" layout "+bitmaps[0]+" -d "+detectionsPath(bitmaps[0]))
	return nil
}
