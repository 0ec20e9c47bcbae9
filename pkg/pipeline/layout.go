package pipeline

import (
	"context"

	"github.com/matzehuels/tactile/pkg/core/layout"
)

// BuildLayout computes the page model of a job. Options must have been
// validated; warnings are logged at warn level and kept on the layout.
func BuildLayout(ctx context.Context, job layout.Job, opts Options) (*layout.Layout, error) {
	lo, err := opts.LayoutOptions()
	if err != nil {
		return nil, err
	}

	l, err := layout.Build(ctx, job, opts.Translator, lo)
	if err != nil {
		return nil, err
	}

	for _, d := range l.Summary.Density {
		opts.Logger.Debug("regulated density",
			"page", d.Page,
			"initial", d.Initial,
			"achieved", d.Achieved,
			"iterations", d.Iterations,
			"stalled", d.Stalled)
	}
	for _, w := range l.Warnings {
		opts.Logger.Warn(w.Message, "code", w.Code, "page", w.Page)
	}
	return l, nil
}
