// Package density keeps raised-area fractions within what swell paper can
// take.
//
// Swell paper raises every dark pixel when heated. Past roughly a third of
// the sheet the capsules merge and fine lines blur, and past the safety bound
// the sheet warps. [Regulate] thins a bitmap with repeated erosion passes
// until it meets a target fraction, and [Check] turns a fraction above the
// hard safety bound into a [errors.DensityError].
//
// Missing the target is not an error: the regulator returns the thinnest
// bitmap it produced and [Result.TargetMet] is false, which the layout
// assembler records as a warning.
package density
