// Package lsq implements error-weighted linear least squares.
//
// The solver minimizes Σ wᵢ(yᵢ − Xᵢβ)² through the normal equations
// XᵀWX β = XᵀWy, factorized with a Cholesky decomposition so rank
// deficiency is detected rather than silently producing garbage. The
// normalized covariance (XᵀWX)⁻¹ is returned alongside the coefficients;
// with weights wᵢ = 1/σᵢ² its diagonal square roots are the one-sigma
// parameter uncertainties.
package lsq

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/oclab/octiming/errs"
)

// Solution holds the fitted coefficients and their normalized covariance.
type Solution struct {
	// Coefficients is the coefficient vector β, one entry per design column.
	Coefficients []float64
	// Covariance is the normalized covariance matrix (XᵀWX)⁻¹.
	Covariance *mat.SymDense
}

// Stdev returns the per-coefficient standard deviations, the square roots
// of the covariance diagonal.
func (s *Solution) Stdev() []float64 {
	k := len(s.Coefficients)
	out := make([]float64, k)
	for i := range out {
		out[i] = math.Sqrt(s.Covariance.At(i, i))
	}

	return out
}

// Fit solves the weighted least squares problem for the given design
// matrix (n×k), target vector (n) and weight vector (n).
//
// Weights must be finite and positive; with heteroscedastic measurement
// errors use wᵢ = 1/σᵢ².
//
// Returns:
//   - errs.ErrDimensionMismatch when targets or weights do not match the
//     design row count
//   - errs.ErrInvalidUncertainty when a weight is not finite and positive
//   - errs.ErrSingularDesignMatrix when XᵀWX is not invertible, e.g. a
//     two-point regression over identical timestamps
func Fit(design *mat.Dense, targets, weights []float64) (*Solution, error) {
	n, k := design.Dims()
	if len(targets) != n || len(weights) != n {
		return nil, fmt.Errorf("%w: design is %dx%d but got %d targets and %d weights",
			errs.ErrDimensionMismatch, n, k, len(targets), len(weights))
	}

	for i, w := range weights {
		if w <= 0 || math.IsInf(w, 0) || math.IsNaN(w) {
			return nil, fmt.Errorf("%w: weight %g at row %d", errs.ErrInvalidUncertainty, w, i)
		}
	}

	// Accumulate the normal equations XᵀWX and XᵀWy directly; both stay
	// k×k regardless of the observation count.
	xtwx := mat.NewSymDense(k, nil)
	xtwy := make([]float64, k)
	for i := 0; i < n; i++ {
		w := weights[i]
		for a := 0; a < k; a++ {
			xa := design.At(i, a)
			xtwy[a] += w * xa * targets[i]
			for b := a; b < k; b++ {
				xtwx.SetSym(a, b, xtwx.At(a, b)+w*xa*design.At(i, b))
			}
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(xtwx); !ok {
		return nil, fmt.Errorf("%w: normal equations are rank deficient", errs.ErrSingularDesignMatrix)
	}

	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, mat.NewVecDense(k, xtwy)); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSingularDesignMatrix, err)
	}

	cov := mat.NewSymDense(k, nil)
	if err := chol.InverseTo(cov); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSingularDesignMatrix, err)
	}

	coeffs := make([]float64, k)
	for i := range coeffs {
		coeffs[i] = beta.AtVec(i)
	}

	return &Solution{Coefficients: coeffs, Covariance: cov}, nil
}

// Predict evaluates design·β for the fitted coefficients.
func (s *Solution) Predict(design *mat.Dense) []float64 {
	n, k := design.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var v float64
		for j := 0; j < k; j++ {
			v += design.At(i, j) * s.Coefficients[j]
		}
		out[i] = v
	}

	return out
}
