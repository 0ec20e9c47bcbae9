// Package core holds the tactile layout engine.
//
// The subpackages are pure: no I/O, no logging, no caching. Each works in
// pixel space (origin top-left, Y down) at the production DPI; conversion
// to page space happens once, in the renderers.
//
//   - geom: units, rectangles, paper sizes, coordinate flips
//   - raster: binary bitmaps, cropping, erosion
//   - density: regulation of the raised-area fraction
//   - braille: text to braille cells
//   - placement: label resolution and the symbol key
//   - tiling: tile grids, registration marks, the assembly map
//   - layout: assembly of the ordered page model
package core
