// Package geom converts between the unit systems used by the tactile layout engine.
//
// # Overview
//
// Three coordinate and size systems meet in a tactile layout:
//
//   - Pixel space: origin top-left, Y pointing down, bound to the production
//     resolution of the artwork (dots per inch).
//   - Typographic units ([Points]): 1/72 of an inch, used for braille cell and
//     print font sizes.
//   - Physical page space ([PagePoint]): origin bottom-left, Y pointing up,
//     measured in points on the printed sheet.
//
// Each system has its own named type. A font size in [Points] cannot be passed
// where [Pixels] are expected without going through [PointsToPixels], so the
// classic mistake of treating a 10pt font as 10 pixels does not compile:
//
//	cell := geom.PointsToPixels(10, 300) // 41.67 px, not 10
//
// # Rectangles
//
// [Rect] is an axis-aligned rectangle in pixel space. [Rect.Intersects] uses
// strict overlap, so rectangles that merely touch do not collide. Collision
// checks elsewhere in the engine inflate rectangles with [Rect.Inflate] to
// enforce a minimum spacing.
//
// # Paper
//
// [Paper] describes a physical sheet. [Paper.Pixels] gives its size at a
// production resolution (letter at 300 DPI is 2550×3300 px), and
// [Paper.Points] gives the page-space size used by PDF renderers.
//
// All functions are pure. Non-positive dimensions or resolutions are
// programmer errors and cause a panic; callers validate configuration before
// any geometry is computed.
package geom
