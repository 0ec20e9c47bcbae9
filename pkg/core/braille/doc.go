// Package braille defines the contract between the layout engine and a
// braille-translation engine.
//
// The engine never interprets glyphs. A [Translator] turns text into an
// opaque [Glyphs] token string, and the placement resolver only uses its
// length (to estimate label width) and identity (to render it later).
//
// [Fallback] is a self-contained translator that maps ASCII letters, digits
// and common punctuation onto Unicode braille cells one character at a time.
// It has no contraction tables, so grade 2 requests are served with grade 1
// cells. Production deployments can plug in a full translator.
//
// [Dots] decodes a Unicode braille cell into its raised dot numbers, which is
// how renderers draw cells as embossable dots instead of font glyphs.
package braille
