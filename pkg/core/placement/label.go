package placement

import (
	"fmt"

	"github.com/matzehuels/tactile/pkg/core/braille"
	"github.com/matzehuels/tactile/pkg/core/geom"
)

// Region is one OCR detection in pixel space.
type Region struct {
	Text       string    `json:"text"`
	Box        geom.Rect `json:"box"`
	Confidence float64   `json:"confidence"`
	Rotation   float64   `json:"rotation,omitempty"`
	Page       int       `json:"page,omitempty"`
}

// Outcome is the terminal state of a label.
type Outcome int

// Label outcomes. Proposed is the state before resolution.
const (
	Proposed Outcome = iota
	Placed
	Repositioned
	Symbolized
	Dropped
)

var outcomeNames = [...]string{"proposed", "placed", "repositioned", "symbolized", "dropped"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	if o < 0 || int(o) >= len(outcomeNames) {
		return nil, fmt.Errorf("invalid outcome %d", int(o))
	}
	return []byte(outcomeNames[o]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(b []byte) error {
	for i, n := range outcomeNames {
		if n == string(b) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Cause explains why a label was dropped.
type Cause string

// Drop causes.
const (
	CauseEmptyTranslation Cause = "empty translation"
	CauseTranslation      Cause = "translation failed"
	CauseNoClearPosition  Cause = "no clear position"
	CauseSymbolCollides   Cause = "symbol collides"
)

// Label is the tactile rendering of one region.
type Label struct {
	Index     int            `json:"index"`
	Page      int            `json:"page"`
	Text      string         `json:"text"`
	Glyphs    braille.Glyphs `json:"glyphs"`
	Anchor    geom.Point     `json:"anchor"`
	Box       geom.Rect      `json:"box"`
	Rotation  float64        `json:"rotation,omitempty"`
	Outcome   Outcome        `json:"outcome"`
	Symbol    string         `json:"symbol,omitempty"`
	Truncated bool           `json:"truncated,omitempty"`
	Cause     Cause          `json:"cause,omitempty"`
}

// Visible reports whether the label is rendered on the page.
func (l Label) Visible() bool {
	return l.Outcome == Placed || l.Outcome == Repositioned || l.Outcome == Symbolized
}

// SymbolKeyEntry maps a symbol token back to the text it replaced.
type SymbolKeyEntry struct {
	Symbol       string         `json:"symbol"`
	Text         string         `json:"text"`
	Glyphs       braille.Glyphs `json:"glyphs"`
	SymbolGlyphs braille.Glyphs `json:"symbol_glyphs"`
	Origin       geom.Point     `json:"origin"`
	Page         int            `json:"page"`
}

// Counts tallies labels by outcome.
type Counts struct {
	Placed       int `json:"placed"`
	Repositioned int `json:"repositioned"`
	Symbolized   int `json:"symbolized"`
	Dropped      int `json:"dropped"`
}

// Total returns the number of labels counted.
func (c Counts) Total() int { return c.Placed + c.Repositioned + c.Symbolized + c.Dropped }

// Count tallies labels by outcome. Proposed labels are ignored.
func Count(labels []Label) Counts {
	var c Counts
	for _, l := range labels {
		switch l.Outcome {
		case Placed:
			c.Placed++
		case Repositioned:
			c.Repositioned++
		case Symbolized:
			c.Symbolized++
		case Dropped:
			c.Dropped++
		}
	}
	return c
}
