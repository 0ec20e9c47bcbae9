package tiling

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/errors"
)

// TieBreak picks one tile for a label whose anchor lies in several.
type TieBreak int

// Tie-break rules.
const (
	TieTopLeft TieBreak = iota // first owning tile in row-major order
	TieCore                    // tile whose core contains the anchor
)

func (t TieBreak) String() string {
	switch t {
	case TieTopLeft:
		return "top-left"
	case TieCore:
		return "core"
	}
	return fmt.Sprintf("tiebreak(%d)", int(t))
}

// ParseTieBreak parses "top-left" or "core".
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(s) {
	case "", "top-left", "topleft":
		return TieTopLeft, nil
	case "core":
		return TieCore, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown tie-break rule %q (valid: top-left, core)", s)
}

// Registration mark geometry, in pixels.
const (
	DefaultMarkSize   geom.Pixels = 30
	DefaultMarkInset  geom.Pixels = 10
	DefaultMarkRadius geom.Pixels = 3
)

// DefaultMinFeature is half an inch at 300 DPI.
const DefaultMinFeature geom.Pixels = 150

// MaxOverlap is the exclusive upper bound on the overlap fraction.
const MaxOverlap = 0.5

// Config describes the sheet and overlap policy.
type Config struct {
	Paper      geom.Size   // printable sheet in pixels
	Overlap    float64     // fraction of the sheet shared with neighbours
	MarkSize   geom.Pixels // crosshair length
	MarkInset  geom.Pixels // distance from the tile edge
	MarkRadius geom.Pixels // center dot radius
	NoMarks    bool        // omit registration marks
	MinFeature geom.Pixels // smallest sheet edge that still holds a feature
	TieBreak   TieBreak
}

// DefaultConfig returns the default configuration for a sheet.
func DefaultConfig(paper geom.Size) Config {
	return Config{
		Paper:      paper,
		Overlap:    0.1,
		MarkSize:   DefaultMarkSize,
		MarkInset:  DefaultMarkInset,
		MarkRadius: DefaultMarkRadius,
		MinFeature: DefaultMinFeature,
	}
}

// Validate reports configuration errors. Negative overlap is not an error;
// it is treated as zero and reported as a degraded-tiling warning.
func (c Config) Validate() error {
	if err := errors.ValidatePositive("paper width", float64(c.Paper.W)); err != nil {
		return err
	}
	if err := errors.ValidatePositive("paper height", float64(c.Paper.H)); err != nil {
		return err
	}
	if c.Overlap >= MaxOverlap || math.IsNaN(c.Overlap) {
		return errors.New(errors.ErrCodeInvalidConfig, "tile overlap must be below %g, got %v", MaxOverlap, c.Overlap)
	}
	if err := errors.ValidateNonNegative("mark size", float64(c.MarkSize)); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("mark inset", float64(c.MarkInset)); err != nil {
		return err
	}
	if c.TieBreak != TieTopLeft && c.TieBreak != TieCore {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown tie-break rule %d", int(c.TieBreak))
	}
	return nil
}
