package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oclab/octiming/errs"
)

func TestNewDataset(t *testing.T) {
	ds, err := NewDataset([]float64{1, 2, 3}, []float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	require.Equal(t, []float64{1, 2, 3}, ds.Times())

	w := ds.Weights()
	require.InDelta(t, 100.0, w[0], 1e-9)
	require.InDelta(t, 25.0, w[1], 1e-9)
}

func TestNewDatasetCopiesInput(t *testing.T) {
	times := []float64{1, 2}
	ds, err := NewDataset(times, []float64{0.1, 0.1})
	require.NoError(t, err)

	times[0] = 99
	require.Equal(t, []float64{1, 2}, ds.Times())
}

func TestNewDatasetErrors(t *testing.T) {
	tests := []struct {
		name   string
		times  []float64
		sigmas []float64
		want   error
	}{
		{"length mismatch", []float64{1, 2}, []float64{0.1}, errs.ErrDimensionMismatch},
		{"single observation", []float64{1}, []float64{0.1}, errs.ErrInsufficientData},
		{"empty", nil, nil, errs.ErrInsufficientData},
		{"zero uncertainty", []float64{1, 2}, []float64{0.1, 0}, errs.ErrInvalidUncertainty},
		{"negative uncertainty", []float64{1, 2}, []float64{0.1, -1}, errs.ErrInvalidUncertainty},
		{"nan uncertainty", []float64{1, 2}, []float64{0.1, math.NaN()}, errs.ErrInvalidUncertainty},
		{"nan time", []float64{1, math.NaN()}, []float64{0.1, 0.1}, errs.ErrInvalidUncertainty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDataset(tt.times, tt.sigmas)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
