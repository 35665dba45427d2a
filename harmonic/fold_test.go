package harmonic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oclab/octiming/errs"
)

func TestFoldPhases(t *testing.T) {
	epochs := []float64{0, 2.5, 10, 12.5, -2.5}
	values := []float64{1, 2, 3, 4, 5}
	sigmas := []float64{0.1, 0.1, 0.1, 0.1, 0.1}

	f, err := Fold(epochs, values, sigmas, 10.0)
	require.NoError(t, err)

	require.InDelta(t, 0.0, f.Phases[0], 1e-12)
	require.InDelta(t, 0.25, f.Phases[1], 1e-12)
	require.InDelta(t, 0.0, f.Phases[2], 1e-12)
	require.InDelta(t, 0.25, f.Phases[3], 1e-12)
	// Negative epochs wrap into [0, 1).
	require.InDelta(t, 0.75, f.Phases[4], 1e-12)
}

func TestFoldBinningRules(t *testing.T) {
	// Phases 0.05 and 0.05 share the first occupied bin; 0.9 sits alone
	// in the last. The epochs are chosen so epoch/period mod 1 lands
	// exactly on those phases.
	epochs := []float64{0.05, 1.05, 0.9}
	values := []float64{1.0, 3.0, 5.0}
	sigmas := []float64{0.25, 0.25, 0.125}

	f, err := Fold(epochs, values, sigmas, 1.0)
	require.NoError(t, err)

	b := f.Binned
	require.Len(t, b.Edges, BinEdgeCount)
	require.InDelta(t, 1.0/7.0, b.Edges[1], 1e-12)

	// Bin index 1 covers [0, 1/7): both 0.05 points.
	require.InDelta(t, 2.0, b.Means[1], 1e-12)
	require.Greater(t, b.Stdevs[1], 0.0)

	// Bin index 7 covers [6/7, 1): the single 0.9 point keeps its own
	// measurement uncertainty, not a derived statistic.
	require.InDelta(t, 5.0, b.Means[7], 1e-12)
	require.InDelta(t, 0.125, b.Stdevs[7], 1e-12)

	// Index 0 and the untouched interior bins report NaN.
	require.True(t, math.IsNaN(b.Means[0]))
	require.True(t, math.IsNaN(b.Stdevs[0]))
	require.True(t, math.IsNaN(b.Means[3]))
	require.True(t, math.IsNaN(b.Stdevs[3]))
}

func TestFoldErrors(t *testing.T) {
	_, err := Fold([]float64{1, 2}, []float64{1}, []float64{1, 1}, 5.0)
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)

	_, err = Fold([]float64{1, 2}, []float64{1, 1}, []float64{1, 1}, 0)
	require.ErrorIs(t, err, errs.ErrInvalidPeriod)
}

func TestDigitize(t *testing.T) {
	edges := []float64{0, 0.25, 0.5, 0.75}

	require.Equal(t, 1, digitize(0.0, edges))
	require.Equal(t, 1, digitize(0.1, edges))
	require.Equal(t, 2, digitize(0.25, edges))
	require.Equal(t, 3, digitize(0.6, edges))
	require.Equal(t, 3, digitize(0.99, edges))
}
