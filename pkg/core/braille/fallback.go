package braille

import (
	"strings"
	"unicode"
)

// cells maps lowercase ASCII onto Unicode braille. Digits reuse the a-j cells
// without a number sign.
var cells = map[rune]string{
	'a': "⠁", 'b': "⠃", 'c': "⠉", 'd': "⠙", 'e': "⠑",
	'f': "⠋", 'g': "⠛", 'h': "⠓", 'i': "⠊", 'j': "⠚",
	'k': "⠅", 'l': "⠇", 'm': "⠍", 'n': "⠝", 'o': "⠕",
	'p': "⠏", 'q': "⠟", 'r': "⠗", 's': "⠎", 't': "⠞",
	'u': "⠥", 'v': "⠧", 'w': "⠺", 'x': "⠭", 'y': "⠽",
	'z': "⠵",

	'1': "⠁", '2': "⠃", '3': "⠉", '4': "⠙", '5': "⠑",
	'6': "⠋", '7': "⠛", '8': "⠓", '9': "⠊", '0': "⠚",

	' ': " ", '.': "⠲", ',': "⠂", '?': "⠦", '!': "⠖",
	'-': "⠤", '\'': "⠄", '"': "⠦", '(': "⠐⠣",
	')': "⠐⠜", '/': "⠌", '+': "⠖", '=': "⠶",
	':': "⠒", ';': "⠆", '@': "⠈⠁",
}

// Fallback translates character by character. Characters without a cell are
// passed through unchanged so nothing is silently lost. Blank input yields
// empty glyphs.
type Fallback struct{}

// Translate implements Translator. Grade 2 is served with grade 1 cells.
func (Fallback) Translate(text string, g Grade) (Glyphs, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	var b strings.Builder
	for _, r := range text {
		if c, ok := cells[unicode.ToLower(r)]; ok {
			b.WriteString(c)
			continue
		}
		b.WriteRune(r)
	}
	return Glyphs(b.String()), nil
}

// Contracts reports whether the translator honours grade 2 contractions.
func (Fallback) Contracts() bool { return false }
