// Package config loads named layout presets.
//
// A preset bundles sheet, density, placement and tiling settings tuned for a
// kind of drawing. Three presets are built in; a TOML file can override them
// or add more:
//
//	default = "floor_plan"
//
//	[presets.site_plan]
//	description = "Large site plans on tabloid sheets"
//	paper = "tabloid"
//	density_target = 0.28
//	overlap = 0.15
//
// Preset values fill only the options a caller left unset, so explicit
// command-line flags and request fields always win.
package config

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tactile/pkg/errors"
	"github.com/matzehuels/tactile/pkg/pipeline"
)

// DefaultPreset is used when a file names no default.
const DefaultPreset = "floor_plan"

// Preset is a named set of layout settings. Zero fields are unset.
type Preset struct {
	Name        string `toml:"-" json:"name"`
	Description string `toml:"description" json:"description"`
	Notes       string `toml:"notes,omitempty" json:"notes,omitempty"`

	Paper    string  `toml:"paper,omitempty" json:"paper,omitempty"`
	DPI      float64 `toml:"dpi,omitempty" json:"dpi,omitempty"`
	Scale    float64 `toml:"scale,omitempty" json:"scale,omitempty"`
	FontSize float64 `toml:"font_size,omitempty" json:"font_size,omitempty"`
	Grade    int     `toml:"grade,omitempty" json:"grade,omitempty"`

	Target        float64 `toml:"density_target,omitempty" json:"density_target,omitempty"`
	Safety        float64 `toml:"density_safety,omitempty" json:"density_safety,omitempty"`
	MaxIterations int     `toml:"max_iterations,omitempty" json:"max_iterations,omitempty"`

	Order     []string `toml:"order,omitempty" json:"order,omitempty"`
	MaxLength int      `toml:"max_length,omitempty" json:"max_length,omitempty"`
	NoSymbols bool     `toml:"no_symbols,omitempty" json:"no_symbols,omitempty"`

	Overlap  *float64 `toml:"overlap,omitempty" json:"overlap,omitempty"`
	TieBreak string   `toml:"tie_break,omitempty" json:"tie_break,omitempty"`
	NoMarks  bool     `toml:"no_marks,omitempty" json:"no_marks,omitempty"`
}

// Apply fills the unset fields of opts from the preset.
func (p Preset) Apply(opts *pipeline.Options) {
	if opts.Paper == "" {
		opts.Paper = p.Paper
	}
	if opts.DPI == 0 {
		opts.DPI = p.DPI
	}
	if opts.Scale == 0 {
		opts.Scale = p.Scale
	}
	if opts.FontSize == 0 {
		opts.FontSize = p.FontSize
	}
	if opts.Grade == 0 {
		opts.Grade = p.Grade
	}
	if opts.Target == 0 {
		opts.Target = p.Target
	}
	if opts.Safety == 0 {
		opts.Safety = p.Safety
	}
	if opts.MaxIterations == 0 {
		opts.MaxIterations = p.MaxIterations
	}
	if len(opts.Order) == 0 {
		opts.Order = p.Order
	}
	if opts.MaxLength == 0 {
		opts.MaxLength = p.MaxLength
	}
	opts.NoSymbols = opts.NoSymbols || p.NoSymbols
	if opts.Overlap == nil && p.Overlap != nil {
		v := *p.Overlap
		opts.Overlap = &v
	}
	if opts.TieBreak == "" {
		opts.TieBreak = p.TieBreak
	}
	opts.NoMarks = opts.NoMarks || p.NoMarks
}

// Presets is a set of presets with a default.
type Presets struct {
	Default string            `toml:"default"`
	Presets map[string]Preset `toml:"presets"`
}

// Builtin returns the presets shipped with tactile.
func Builtin() *Presets {
	overlap := func(v float64) *float64 { return &v }
	return &Presets{
		Default: DefaultPreset,
		Presets: map[string]Preset{
			"floor_plan": {
				Name:        "floor_plan",
				Description: "Architectural floor plans with room labels",
				Notes:       "Balanced density; labels move before they become symbols.",
				Paper:       "letter",
				Target:      0.30,
				Safety:      0.45,
				Overlap:     overlap(0.1),
			},
			"sketch": {
				Name:          "sketch",
				Description:   "Hand-drawn sketches with heavy strokes",
				Notes:         "Thins strokes harder and keeps labels short.",
				Paper:         "letter",
				Target:        0.25,
				Safety:        0.40,
				MaxIterations: 15,
				MaxLength:     12,
				Overlap:       overlap(0.1),
			},
			"dense_plan": {
				Name:        "dense_plan",
				Description: "Detailed plans with many small labels",
				Notes:       "Contracted braille and tabloid sheets to fit more labels.",
				Paper:       "tabloid",
				Grade:       2,
				Target:      0.35,
				Safety:      0.50,
				Order:       []string{"original", "below", "above", "right", "left"},
				Overlap:     overlap(0.15),
				TieBreak:    "core",
			},
		},
	}
}

// Names returns the preset names in sorted order.
func (ps *Presets) Names() []string {
	return slices.Sorted(maps.Keys(ps.Presets))
}

// Get returns a preset by name. The empty name selects the default.
func (ps *Presets) Get(name string) (Preset, error) {
	if name == "" {
		name = ps.Default
	}
	p, ok := ps.Presets[strings.ToLower(name)]
	if !ok {
		return Preset{}, errors.New(errors.ErrCodeNotFound,
			"preset %q not found (available: %s)", name, strings.Join(ps.Names(), ", "))
	}
	return p, nil
}

// DefaultPath returns the user presets file, $XDG_CONFIG_HOME/tactile/presets.toml
// on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tactile", "presets.toml"), nil
}

// Load reads a presets file and merges it over the built-in presets.
// A missing file at the default path is not an error; a missing explicit
// path is.
func Load(path string) (*Presets, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Builtin(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Builtin(), nil
	}
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "presets file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read presets file %s", path)
	}
	return Parse(string(data))
}

// Parse decodes TOML presets and merges them over the built-in presets.
func Parse(data string) (*Presets, error) {
	var file Presets
	md, err := toml.Decode(data, &file)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse presets")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown preset setting %q", undecoded[0].String())
	}

	ps := Builtin()
	for name, p := range file.Presets {
		name = strings.ToLower(name)
		p.Name = name
		if err := p.validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "preset %s", name)
		}
		ps.Presets[name] = p
	}
	if file.Default != "" {
		ps.Default = strings.ToLower(file.Default)
	}
	if _, ok := ps.Presets[ps.Default]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "default preset %q is not defined", file.Default)
	}
	return ps, nil
}

// validate checks the preset by applying it to empty options and running
// the pipeline's layout validation.
func (p Preset) validate() error {
	var opts pipeline.Options
	p.Apply(&opts)
	return opts.ValidateForLayout()
}
