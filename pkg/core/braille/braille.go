package braille

import (
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/tactile/pkg/errors"
)

// Grade is a braille contraction grade.
type Grade int

// Supported grades.
const (
	Grade1 Grade = 1 // uncontracted
	Grade2 Grade = 2 // contracted
)

// Validate returns an INVALID_CONFIG error for anything but grade 1 or 2.
func (g Grade) Validate() error {
	if g != Grade1 && g != Grade2 {
		return errors.New(errors.ErrCodeInvalidConfig, "braille grade must be 1 or 2, got %d", int(g))
	}
	return nil
}

// Glyphs is an opaque sequence of tactile tokens, one rune per token.
type Glyphs string

// Len returns the number of tokens.
func (g Glyphs) Len() int { return utf8.RuneCountInString(string(g)) }

// Concat appends other to g.
func (g Glyphs) Concat(other Glyphs) Glyphs { return g + other }

// Empty reports whether g has no visible tokens.
func (g Glyphs) Empty() bool { return strings.TrimSpace(string(g)) == "" }

// Translator converts text into glyphs at a contraction grade.
type Translator interface {
	Translate(text string, g Grade) (Glyphs, error)
}

// TranslatorFunc adapts an ordinary function to a Translator.
type TranslatorFunc func(text string, g Grade) (Glyphs, error)

// Translate calls f(text, g).
func (f TranslatorFunc) Translate(text string, g Grade) (Glyphs, error) { return f(text, g) }

// Contractor is implemented by translators that know whether they produce
// grade 2 contractions.
type Contractor interface {
	Contracts() bool
}

// Contracts reports whether t honours grade 2. Translators that do not
// implement Contractor are assumed to.
func Contracts(t Translator) bool {
	if c, ok := t.(Contractor); ok {
		return c.Contracts()
	}
	return true
}
