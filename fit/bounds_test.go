package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oclab/octiming/errs"
)

func TestExplicitBounds(t *testing.T) {
	tests := []struct {
		name    string
		bounds  Bounds
		wantErr bool
	}{
		{
			name: "valid",
			bounds: Bounds{
				ParamSlope:     {Low: 2.4, High: 2.6},
				ParamIntercept: {Low: 0, High: 10},
			},
		},
		{
			name: "missing intercept",
			bounds: Bounds{
				ParamSlope: {Low: 2.4, High: 2.6},
			},
			wantErr: true,
		},
		{
			name: "degenerate low==high",
			bounds: Bounds{
				ParamSlope:     {Low: 5, High: 5},
				ParamIntercept: {Low: 0, High: 10},
			},
			wantErr: true,
		},
		{
			name: "inverted",
			bounds: Bounds{
				ParamSlope:     {Low: 2.6, High: 2.4},
				ParamIntercept: {Low: 0, High: 10},
			},
			wantErr: true,
		},
		{
			name: "non-finite",
			bounds: Bounds{
				ParamSlope:     {Low: math.Inf(-1), High: 2.6},
				ParamIntercept: {Low: 0, High: 10},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Explicit(tt.bounds).resolve()
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidBounds)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.bounds[ParamSlope], got[ParamSlope])
			require.Equal(t, tt.bounds[ParamIntercept], got[ParamIntercept])
		})
	}
}

func TestExplicitCopiesBounds(t *testing.T) {
	src := Bounds{
		ParamSlope:     {Low: 1, High: 2},
		ParamIntercept: {Low: 3, High: 4},
	}
	got, err := Explicit(src).resolve()
	require.NoError(t, err)

	src[ParamSlope] = Interval{Low: -1, High: 0}
	require.Equal(t, Interval{Low: 1, High: 2}, got[ParamSlope])
}

func TestDerivedFromPrior(t *testing.T) {
	prior := Prior{
		ParamSlope:     {Mean: 2.52, Stdev: 0.01},
		ParamIntercept: {Mean: 100, Stdev: 0.5},
	}

	got, err := DerivedFromPrior(prior, 0).resolve()
	require.NoError(t, err)
	require.InDelta(t, 2.52-3*0.01, got[ParamSlope].Low, 1e-12)
	require.InDelta(t, 2.52+3*0.01, got[ParamSlope].High, 1e-12)
	require.InDelta(t, 100-1.5, got[ParamIntercept].Low, 1e-12)
	require.InDelta(t, 100+1.5, got[ParamIntercept].High, 1e-12)

	got, err = DerivedFromPrior(prior, 1).resolve()
	require.NoError(t, err)
	require.InDelta(t, 2.51, got[ParamSlope].Low, 1e-12)
	require.InDelta(t, 2.53, got[ParamSlope].High, 1e-12)
}

func TestDerivedFromPriorInvalid(t *testing.T) {
	_, err := DerivedFromPrior(Prior{ParamSlope: {Mean: 1, Stdev: 0.1}}, 3).resolve()
	require.ErrorIs(t, err, errs.ErrInvalidBounds)

	// Zero stdev collapses the interval.
	_, err = DerivedFromPrior(Prior{
		ParamSlope:     {Mean: 1, Stdev: 0},
		ParamIntercept: {Mean: 2, Stdev: 0.1},
	}, 3).resolve()
	require.ErrorIs(t, err, errs.ErrInvalidBounds)
}

func TestIntervalHelpers(t *testing.T) {
	iv := Interval{Low: 2, High: 6}
	require.InDelta(t, 4.0, iv.Mid(), 1e-12)
	require.InDelta(t, 4.0, iv.Width(), 1e-12)
}
