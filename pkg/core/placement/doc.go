// Package placement positions braille labels next to the text they replace.
//
// # Model
//
// The input is a list of [Region] values produced by OCR: detected text with
// a pixel-space bounding box. Each region becomes one [Label] carrying the
// translated glyphs, an anchor and an estimated box, and a terminal
// [Outcome]:
//
//   - Placed: the label fits at its original anchor
//   - Repositioned: it fits after moving below, above, right or left, or
//     after its original box was pushed back inside the page
//   - Symbolized: no candidate was clear, so a short symbol token stands in
//     for it and a [SymbolKeyEntry] records the full text for the key page
//   - Dropped: not even the symbol fits, or translation produced nothing
//
// # Resolution
//
// A [Resolver] is a sequential fold. Each decision depends on every label
// accepted before it, so labels must be resolved one at a time in input
// order; the result is deterministic for a fixed order. The candidate search
// is a fixed heuristic, not an optimal packing solver.
//
// Label size is estimated from the glyph count and a fixed cell width. All
// sizes in [Options] are pixels; build them from typographic sizes with
// [NewOptions] so points are converted exactly once.
//
// Two boxes collide when, after growing each by half the minimum spacing,
// they share interior area. Every candidate is clamped into the page bounds
// first, and a label larger than the page is never placed. An original box
// that needed clamping counts as Repositioned.
//
// # Symbols
//
// Symbol tokens come from a job-scoped [Symbols] sequence: a, b, ..., z, aa,
// ab, and so on. A token is consumed only when its symbol label is accepted,
// so tokens stay gap-free and unique within one job.
package placement
