package placement

import (
	"fmt"

	"github.com/matzehuels/tactile/pkg/core/braille"
	"github.com/matzehuels/tactile/pkg/core/geom"
)

// Resolver places labels one at a time against everything it accepted
// before. It is not safe for concurrent use.
type Resolver struct {
	opts       Options
	bounds     geom.Rect
	translator braille.Translator
	grade      braille.Grade
	symbols    *Symbols

	placed []geom.Rect // accepted boxes, already inflated
	key    []SymbolKeyEntry
	count  int
}

// NewResolver returns a resolver for one page. bounds is the area labels
// must stay inside. symbols is shared by every page of a job; nil starts a
// fresh sequence.
func NewResolver(opts Options, bounds geom.Rect, t braille.Translator, g braille.Grade, symbols *Symbols) *Resolver {
	if symbols == nil {
		symbols = &Symbols{}
	}
	return &Resolver{
		opts:       opts,
		bounds:     bounds,
		translator: t,
		grade:      g,
		symbols:    symbols,
	}
}

// Label translates region's text, truncating it first if it is too long,
// and resolves the result.
func (r *Resolver) Label(region Region) Label {
	text, truncated := truncate(region.Text, r.opts.MaxLength, r.opts.TruncateSuffix)

	glyphs, err := r.translator.Translate(text, r.grade)
	if err == nil && truncated {
		var suffix braille.Glyphs
		suffix, err = r.translator.Translate(r.opts.TruncateSuffix, r.grade)
		glyphs = glyphs.Concat(suffix)
	}
	if err != nil {
		l := r.proposed(region, "")
		l.Outcome = Dropped
		l.Cause = CauseTranslation
		l.Truncated = truncated
		return l
	}

	l := r.resolve(region, glyphs)
	l.Truncated = truncated
	return l
}

// Resolve places a region whose glyphs were already translated.
func (r *Resolver) Resolve(region Region, glyphs braille.Glyphs) Label {
	return r.resolve(region, glyphs)
}

func (r *Resolver) resolve(region Region, glyphs braille.Glyphs) Label {
	l := r.proposed(region, glyphs)
	if glyphs.Empty() {
		l.Outcome = Dropped
		l.Cause = CauseEmptyTranslation
		return l
	}

	if l.Box.Fits(r.bounds) {
		for _, d := range r.opts.order() {
			want := r.candidate(l.Box, d)
			c := want.Clamp(r.bounds)
			if !r.free(c) {
				continue
			}
			l.Box = c
			l.Anchor = c.Min()
			l.Outcome = Repositioned
			if d == Original && c == want {
				l.Outcome = Placed
			}
			r.accept(c)
			return l
		}
	}

	if !r.opts.UseSymbols {
		l.Outcome = Dropped
		l.Cause = CauseNoClearPosition
		return l
	}
	return r.symbolize(l)
}

// symbolize replaces l with the next symbol token at its original anchor.
// The token is consumed only if the symbol fits.
func (r *Resolver) symbolize(l Label) Label {
	token := r.symbols.Peek()
	sg, err := r.translator.Translate(token, r.grade)
	if err != nil || sg.Empty() {
		l.Outcome = Dropped
		l.Cause = CauseTranslation
		return l
	}

	box := geom.Rect{X: l.Anchor.X, Y: l.Anchor.Y, W: r.width(sg), H: r.opts.LineHeight}
	if !box.Fits(r.bounds) {
		l.Outcome = Dropped
		l.Cause = CauseSymbolCollides
		return l
	}
	box = box.Clamp(r.bounds)
	if !r.free(box) {
		l.Outcome = Dropped
		l.Cause = CauseSymbolCollides
		return l
	}

	r.symbols.Next()
	r.accept(box)
	r.key = append(r.key, SymbolKeyEntry{
		Symbol:       token,
		Text:         l.Text,
		Glyphs:       l.Glyphs,
		SymbolGlyphs: sg,
		Origin:       l.Anchor,
		Page:         l.Page,
	})

	l.Outcome = Symbolized
	l.Symbol = token
	l.Glyphs = sg
	l.Box = box
	l.Anchor = box.Min()
	return l
}

// proposed builds the label at its original anchor.
func (r *Resolver) proposed(region Region, glyphs braille.Glyphs) Label {
	anchor := region.Box.Min().Add(r.opts.Offset)
	l := Label{
		Index:    r.count,
		Page:     region.Page,
		Text:     region.Text,
		Glyphs:   glyphs,
		Anchor:   anchor,
		Box:      geom.Rect{X: anchor.X, Y: anchor.Y, W: r.width(glyphs), H: r.opts.LineHeight},
		Rotation: region.Rotation,
		Outcome:  Proposed,
	}
	r.count++
	return l
}

func (r *Resolver) candidate(box geom.Rect, d Direction) geom.Rect {
	switch d {
	case Below:
		return box.Translate(geom.Point{Y: box.H + r.opts.Delta})
	case Above:
		return box.Translate(geom.Point{Y: -(box.H + r.opts.Delta)})
	case Right:
		return box.Translate(geom.Point{X: box.W + r.opts.Delta})
	case Left:
		return box.Translate(geom.Point{X: -(box.W + r.opts.Delta)})
	}
	return box
}

func (r *Resolver) width(g braille.Glyphs) geom.Pixels {
	return r.opts.CellWidth * geom.Pixels(g.Len())
}

func (r *Resolver) free(box geom.Rect) bool {
	box = box.Inflate(r.opts.Spacing / 2)
	for _, p := range r.placed {
		if box.Intersects(p) {
			return false
		}
	}
	return true
}

func (r *Resolver) accept(box geom.Rect) {
	r.placed = append(r.placed, box.Inflate(r.opts.Spacing/2))
}

// Placed returns the boxes accepted so far, without the spacing margin.
func (r *Resolver) Placed() []geom.Rect {
	out := make([]geom.Rect, len(r.placed))
	for i, p := range r.placed {
		out[i] = p.Inflate(-r.opts.Spacing / 2)
	}
	return out
}

// Key returns the symbol key entries created by this resolver.
func (r *Resolver) Key() []SymbolKeyEntry {
	return append([]SymbolKeyEntry(nil), r.key...)
}

// Bounds returns the page bounds labels are kept inside.
func (r *Resolver) Bounds() geom.Rect { return r.bounds }

// truncate cuts text so that it plus suffix is limit runes long. The suffix
// itself is not appended; callers translate it separately.
func truncate(text string, limit int, suffix string) (string, bool) {
	runes := []rune(text)
	if len(runes) <= limit {
		return text, false
	}
	keep := limit - len([]rune(suffix))
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]), true
}

// Check verifies that no two visible labels on the same page collide once
// grown by half of spacing.
func Check(labels []Label, spacing geom.Pixels) error {
	for i := range labels {
		if !labels[i].Visible() {
			continue
		}
		a := labels[i].Box.Inflate(spacing / 2)
		for j := i + 1; j < len(labels); j++ {
			if !labels[j].Visible() || labels[j].Page != labels[i].Page {
				continue
			}
			if a.Intersects(labels[j].Box.Inflate(spacing / 2)) {
				return fmt.Errorf("labels %d and %d overlap on page %d", labels[i].Index, labels[j].Index, labels[i].Page)
			}
		}
	}
	return nil
}
