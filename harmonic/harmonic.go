// Package harmonic refits O−C residuals with sine/cosine bases at
// candidate periods found by the periodogram, and summarizes the folded
// signal in phase bins.
package harmonic

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/oclab/octiming/errs"
	"github.com/oclab/octiming/lsq"
)

// CurveSamples is the resolution of the reconstructed best-fit curve.
const CurveSamples = 1000

// Fit is the weighted least squares solution for a one- or two-period
// harmonic model of the residuals.
type Fit struct {
	// Periods are the trial periods, in epochs.
	Periods []float64

	// Coefficients are ordered sin(P1), cos(P1)[, sin(P2), cos(P2)],
	// constant.
	Coefficients []float64

	// Stdev are the coefficient standard deviations from the normalized
	// covariance.
	Stdev []float64

	// Fitted is the model evaluated at the input epochs.
	Fitted []float64

	// CurveEpochs and Curve trace the model over a fine epoch grid for
	// rendering.
	CurveEpochs []float64
	Curve       []float64
}

// Refit fits residuals with the basis {sin(2π·epoch/P), cos(2π·epoch/P)}
// per candidate period plus a constant term, weighted by 1/σ².
//
// Returns errs.ErrInvalidPeriod for a non-positive period,
// errs.ErrDimensionMismatch for mismatched arrays, and the lsq failure
// modes (including errs.ErrSingularDesignMatrix) from the refit itself.
func Refit(epochs, residuals, sigmas []float64, periods ...float64) (*Fit, error) {
	n := len(epochs)
	if len(residuals) != n || len(sigmas) != n {
		return nil, fmt.Errorf("%w: %d epochs vs %d residuals vs %d uncertainties",
			errs.ErrDimensionMismatch, n, len(residuals), len(sigmas))
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("%w: no trial periods", errs.ErrInvalidPeriod)
	}
	for _, p := range periods {
		if !(p > 0) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: %g", errs.ErrInvalidPeriod, p)
		}
	}
	k := 2*len(periods) + 1
	if n < k {
		return nil, fmt.Errorf("%w: %d points cannot constrain %d harmonic coefficients",
			errs.ErrInsufficientData, n, k)
	}

	weights := make([]float64, n)
	for i, s := range sigmas {
		if !(s > 0) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: uncertainty %g at index %d", errs.ErrInvalidUncertainty, s, i)
		}
		weights[i] = 1 / (s * s)
	}

	design := basisMatrix(epochs, periods)
	sol, err := lsq.Fit(design, residuals, weights)
	if err != nil {
		return nil, err
	}

	grid := make([]float64, CurveSamples)
	floats.Span(grid, floats.Min(epochs), floats.Max(epochs))

	return &Fit{
		Periods:      periods,
		Coefficients: sol.Coefficients,
		Stdev:        sol.Stdev(),
		Fitted:       sol.Predict(design),
		CurveEpochs:  grid,
		Curve:        sol.Predict(basisMatrix(grid, periods)),
	}, nil
}

// basisMatrix builds the design matrix [sin, cos per period, 1] at the
// given epochs.
func basisMatrix(x []float64, periods []float64) *mat.Dense {
	k := 2*len(periods) + 1
	d := mat.NewDense(len(x), k, nil)
	for i, xi := range x {
		for j, p := range periods {
			s, c := math.Sincos(2 * math.Pi * xi / p)
			d.Set(i, 2*j, s)
			d.Set(i, 2*j+1, c)
		}
		d.Set(i, k-1, 1)
	}

	return d
}

// Amplitude returns the semi-amplitude sqrt(a²+b²) of the harmonic pair
// for the period at index idx.
func (f *Fit) Amplitude(idx int) float64 {
	a := f.Coefficients[2*idx]
	b := f.Coefficients[2*idx+1]

	return math.Hypot(a, b)
}
