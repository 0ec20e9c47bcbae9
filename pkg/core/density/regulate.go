package density

import (
	"github.com/matzehuels/tactile/pkg/core/raster"
	"github.com/matzehuels/tactile/pkg/errors"
)

// Defaults used when options leave a value unset.
const (
	DefaultTarget        = 0.30
	DefaultSafety        = 0.45
	DefaultMaxIterations = 10
)

// Result describes one regulation run.
type Result struct {
	Bitmap     *raster.Bitmap `json:"-"`
	Initial    float64        `json:"initial"`
	Achieved   float64        `json:"achieved"`
	Target     float64        `json:"target"`
	Iterations int            `json:"iterations"`
	TargetMet  bool           `json:"target_met"`
	Stalled    bool           `json:"stalled,omitempty"`
}

// Regulate erodes b until its raised-area fraction is at most target or
// maxIterations passes have run. The input bitmap is never modified.
//
// Each pass recomputes the fraction once. If a pass removes no pixels the
// bitmap has reached a fixed point and regulation stops early with Stalled
// set; that pass is not counted in Iterations. Erosion never adds pixels,
// so the last bitmap is also the thinnest.
// With maxIterations <= 0 the input is cloned and measured unchanged.
func Regulate(b *raster.Bitmap, target float64, maxIterations int) Result {
	cur := b.Clone()
	count := cur.Count()
	total := len(cur.Pix)
	frac := fraction(count, total)

	res := Result{Initial: frac, Target: target}
	for res.Iterations < maxIterations && frac > target {
		next := cur.Erode()
		n := next.Count()
		if n == count {
			res.Stalled = true
			break
		}
		res.Iterations++
		cur, count = next, n
		frac = fraction(count, total)
	}

	res.Bitmap = cur
	res.Achieved = frac
	res.TargetMet = frac <= target
	return res
}

// Check returns a *errors.DensityError when fraction exceeds the safety bound.
func Check(page int, fraction, safety float64) error {
	if fraction > safety {
		return &errors.DensityError{Page: page, Achieved: fraction, Limit: safety}
	}
	return nil
}

func fraction(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
