// Package sink renders a computed [layout.Layout] into output formats.
//
// # Overview
//
// A "sink" turns the page model into bytes. This package provides:
//
//   - PDF: print-ready sheets for a swell-paper printer (via gopdf)
//   - PNG: a downscaled preview of one page or a contact sheet of all pages
//   - JSON: the page model in physical page space for external tools
//
// # Coordinates
//
// The layout is expressed in pixels at the production resolution with the
// origin at the top-left. Every sink maps positions through
// [geom.ToPageSpace], which yields points with a bottom-left origin. The PDF
// writer addresses the page from the top, so the PDF sink flips once more
// when it emits drawing operators.
//
// # Braille
//
// Braille is drawn as dots rather than as text: each glyph is decoded with
// [braille.Dots] and every raised dot becomes a filled circle inside the
// label box. This keeps output independent of any installed braille font.
//
// Braille lines are always embossed left to right, whatever the angle of the
// printed text they replace: the PDF and PNG sinks ignore Label.Rotation.
// The JSON sink passes it through for tools that draw the print text.
//
// # Artwork
//
// Layouts read from JSON carry no bitmaps. Sinks that draw artwork use
// [layout.Layout.Artwork]; pages without a bitmap are rendered with labels,
// marks and captions only.
//
// [layout.Layout]: github.com/matzehuels/tactile/pkg/core/layout.Layout
// [layout.Layout.Artwork]: github.com/matzehuels/tactile/pkg/core/layout.Layout.Artwork
// [geom.ToPageSpace]: github.com/matzehuels/tactile/pkg/core/geom.ToPageSpace
// [braille.Dots]: github.com/matzehuels/tactile/pkg/core/braille.Dots
package sink
