package placement

import (
	"fmt"
	"strings"

	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/errors"
)

// Direction is one candidate position relative to a label's original box.
type Direction int

// Candidate directions.
const (
	Original Direction = iota
	Below
	Above
	Right
	Left
)

var directionNames = [...]string{"original", "below", "above", "right", "left"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection parses a direction name.
func ParseDirection(s string) (Direction, error) {
	for i, n := range directionNames {
		if strings.EqualFold(n, s) {
			return Direction(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown placement direction %q", s)
}

// DefaultOrder is the candidate order used when Options.Order is empty.
var DefaultOrder = []Direction{Original, Below, Above, Right, Left}

// Default typographic and pixel settings.
const (
	DefaultFontSize  geom.Points = 10
	DefaultCellRatio             = 0.6
	DefaultSpacing   geom.Pixels = 6
	DefaultDelta     geom.Pixels = 10
	DefaultMaxLength             = 30
	DefaultSuffix                = "..."
)

// DefaultOffset shifts the anchor right of and above the detected box.
var DefaultOffset = geom.Point{X: 5, Y: -10}

// Options configures a Resolver. All lengths are pixels.
type Options struct {
	CellWidth      geom.Pixels // width of one glyph token
	LineHeight     geom.Pixels // height of one label line
	Spacing        geom.Pixels // minimum gap between labels
	Delta          geom.Pixels // extra gap when moving to another candidate
	Offset         geom.Point  // anchor offset from the detected box's top-left
	MaxLength      int         // longest source text before truncation
	TruncateSuffix string      // appended to truncated text
	Order          []Direction // candidate order
	UseSymbols     bool        // fall back to symbol tokens
}

// NewOptions returns the default options for labels set at fontSize points
// and printed at dpi.
func NewOptions(fontSize geom.Points, dpi float64) Options {
	line := geom.PointsToPixels(fontSize, dpi)
	return Options{
		CellWidth:      line * DefaultCellRatio,
		LineHeight:     line,
		Spacing:        DefaultSpacing,
		Delta:          DefaultDelta,
		Offset:         DefaultOffset,
		MaxLength:      DefaultMaxLength,
		TruncateSuffix: DefaultSuffix,
		Order:          DefaultOrder,
		UseSymbols:     true,
	}
}

// Validate checks that the options describe a usable resolver.
func (o Options) Validate() error {
	if err := errors.ValidatePositive("placement cell width", float64(o.CellWidth)); err != nil {
		return err
	}
	if err := errors.ValidatePositive("placement line height", float64(o.LineHeight)); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("placement spacing", float64(o.Spacing)); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("placement delta", float64(o.Delta)); err != nil {
		return err
	}
	if o.MaxLength <= len([]rune(o.TruncateSuffix)) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"max label length %d must exceed truncation suffix length %d", o.MaxLength, len([]rune(o.TruncateSuffix)))
	}
	seen := make(map[Direction]bool, len(o.Order))
	for _, d := range o.Order {
		if d < Original || d > Left {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid placement direction %d", int(d))
		}
		if seen[d] {
			return errors.New(errors.ErrCodeInvalidConfig, "placement direction %s listed twice", d)
		}
		seen[d] = true
	}
	return nil
}

func (o Options) order() []Direction {
	if len(o.Order) == 0 {
		return DefaultOrder
	}
	return o.Order
}
