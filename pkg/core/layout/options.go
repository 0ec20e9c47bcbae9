package layout

import (
	"github.com/matzehuels/tactile/pkg/core/braille"
	"github.com/matzehuels/tactile/pkg/core/density"
	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/core/tiling"
	"github.com/matzehuels/tactile/pkg/errors"
)

// DefaultDPI is the production resolution of swell-paper printers.
const DefaultDPI = 300.0

// DensityOptions bounds the raised-area fraction.
type DensityOptions struct {
	Target        float64 `json:"target"`
	Safety        float64 `json:"safety"`
	MaxIterations int     `json:"max_iterations"`
}

// Options configures Build.
type Options struct {
	Paper     geom.Paper        `json:"paper"`
	DPI       float64           `json:"dpi"`
	Scale     float64           `json:"scale"`
	FontSize  geom.Points       `json:"font_size"`
	Grade     braille.Grade     `json:"grade"`
	Density   DensityOptions    `json:"density"`
	Placement placement.Options `json:"-"`
	Tiling    tiling.Config     `json:"-"`
}

// DefaultOptions returns letter paper at 300 DPI with 10 pt grade 1 labels.
func DefaultOptions() Options {
	o := Options{
		Paper:    geom.Letter,
		DPI:      DefaultDPI,
		Scale:    1,
		FontSize: placement.DefaultFontSize,
		Grade:    braille.Grade1,
		Density: DensityOptions{
			Target:        density.DefaultTarget,
			Safety:        density.DefaultSafety,
			MaxIterations: density.DefaultMaxIterations,
		},
	}
	o.Placement = placement.NewOptions(o.FontSize, o.DPI)
	o.Tiling = tiling.DefaultConfig(o.Paper.Pixels(o.DPI))
	return o
}

// PaperPixels returns the sheet size at the production resolution.
func (o Options) PaperPixels() geom.Size { return o.Paper.Pixels(o.DPI) }

// Validate reports the first configuration error.
func (o Options) Validate() error {
	if err := errors.ValidatePositive("dpi", o.DPI); err != nil {
		return err
	}
	if err := errors.ValidatePositive("scale", o.Scale); err != nil {
		return err
	}
	if err := errors.ValidatePositive("paper width", float64(o.Paper.Width)); err != nil {
		return err
	}
	if err := errors.ValidatePositive("paper height", float64(o.Paper.Height)); err != nil {
		return err
	}
	if err := errors.ValidatePositive("font size", float64(o.FontSize)); err != nil {
		return err
	}
	if err := o.Grade.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateFraction("density target", o.Density.Target, 0, 1); err != nil {
		return err
	}
	if err := errors.ValidateFraction("density safety bound", o.Density.Safety, 0, 1); err != nil {
		return err
	}
	if o.Density.Safety < o.Density.Target {
		return errors.New(errors.ErrCodeInvalidConfig,
			"density safety bound %.2f is below the target %.2f", o.Density.Safety, o.Density.Target)
	}
	if o.Density.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max density iterations must not be negative, got %d", o.Density.MaxIterations)
	}
	if err := o.Placement.Validate(); err != nil {
		return err
	}
	cfg := o.Tiling
	cfg.Paper = o.PaperPixels()
	return cfg.Validate()
}
