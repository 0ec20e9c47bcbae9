// Package layout assembles a conversion job into printable pages.
//
// [Build] runs the engine stages over every logical page of a [Job]:
//
//  1. scale the artwork to the production resolution
//  2. regulate its raised-area density, failing the job if the result is
//     still above the safety bound
//  3. resolve every label once, in full-page coordinates
//  4. tile the artwork if it is larger than one sheet and hand each label to
//     one tile
//
// Labels are placed before tiling so that two labels can never collide across
// a tile seam.
//
// # Page order
//
// For each logical page, a tiled artwork yields an assembly-map page followed
// by its tiles in row-major order; an artwork that fits yields one artwork
// page. A single key page closes the job when any label was replaced by a
// symbol. Symbol tokens are unique across the whole job.
//
// # Errors
//
// Only configuration errors and [errors.DensityError] stop a build. Missed
// density targets, dropped labels and degraded tiling are collected as
// [Warning]s in the returned [Layout]. The context is checked between pages,
// so a cancelled job stops without cleanup.
package layout
