package pipeline

import (
	"fmt"

	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/layout"
	"github.com/matzehuels/tactile/pkg/render/sink"
)

// RenderLayout generates output artifacts in the requested formats.
// Layouts without artwork (for example read back from JSON without their
// artwork files) render labels, marks and captions only.
func RenderLayout(l *layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPDF:
			data, err = sink.RenderPDF(l,
				sink.WithPDFTitle(pdfTitle(l)),
				sink.WithBrailleSize(geom.Points(opts.FontSize)))
		case FormatPNG:
			data, err = sink.RenderPNG(l, sink.WithWidth(opts.PreviewWidth))
		case FormatJSON:
			data, err = sink.RenderJSON(l)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func pdfTitle(l *layout.Layout) string {
	if l.JobID == "" {
		return "Tactile graphic"
	}
	return "Tactile graphic " + l.JobID
}
