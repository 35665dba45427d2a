package fit

import (
	"fmt"
	"math"

	"github.com/oclab/octiming/errs"
)

// MapEpochs converts absolute event times into integer cycle numbers
// under an approximate ephemeris: epoch = round((t − intercept)/slope).
//
// The mapping assumes the approximate period is accurate to better than
// half a cycle over the full observation baseline. If the search bounds
// are wide relative to the true period, epochs alias to neighbouring
// cycles and the downstream fit converges to a wrong cycle count; that is
// a caller responsibility and is not detected here.
//
// Returns errs.ErrInvalidBounds when slope is zero or not finite.
func MapEpochs(times []float64, slope, intercept float64) ([]int, error) {
	if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
		return nil, fmt.Errorf("%w: approximate slope %g cannot map epochs", errs.ErrInvalidBounds, slope)
	}

	epochs := make([]int, len(times))
	for i, t := range times {
		epochs[i] = int(math.Round((t - intercept) / slope))
	}

	return epochs, nil
}

// distinctEpochs reports how many unique values the epoch set contains.
func distinctEpochs(epochs []int) int {
	seen := make(map[int]struct{}, len(epochs))
	for _, e := range epochs {
		seen[e] = struct{}{}
	}

	return len(seen)
}
