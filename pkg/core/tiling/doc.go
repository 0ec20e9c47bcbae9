// Package tiling splits artwork that is larger than one sheet into an
// overlapping grid of printable tiles.
//
// # Grid
//
// For a sheet w pixels wide and an overlap fraction f, consecutive tiles
// start w - floor(w*f) pixels apart, so neighbours share a strip of
// floor(w*f) pixels. The grid has ceil(W / (w - floor(w*f))) columns for
// artwork W pixels wide, and likewise for rows.
//
// Every [Tile] has two rectangles in source pixels:
//
//   - Bounds: what is printed on the sheet, overlap included, clipped to the
//     artwork
//   - Core: the tile's share of the artwork without overlap; the cores of a
//     grid partition the artwork exactly
//
// # Registration marks
//
// Each tile carries four crosshair [Mark]s inset from its corners, inside the
// overlap strip, so adjacent sheets can be aligned by eye and by touch.
//
// # Labels
//
// [Grid.Assign] gives every visible label to exactly one tile whose bounds
// contain its anchor and re-expresses it in tile-local pixels. A label in an
// overlap strip goes to the top-left-most owning tile by default, or to the
// tile whose core contains it with [TieCore].
//
// Tiling never refuses to run. Zero overlap, an overlap too thin for the
// marks, or a sheet smaller than the minimum feature size are reported as
// TILING_DEGRADED warnings on the grid.
package tiling
