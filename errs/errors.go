// Package errs defines the sentinel errors shared across octiming packages.
//
// Callers match failures with errors.Is; producing packages wrap these
// sentinels with fmt.Errorf("%w: ...") to attach context.
package errs

import "errors"

var (
	// ErrInvalidBounds indicates malformed parameter bounds: a missing
	// parameter key, a non-finite limit, or low >= high.
	ErrInvalidBounds = errors.New("invalid parameter bounds")

	// ErrInsufficientData indicates a dataset too small to constrain the
	// model: fewer than 2 observations, or fewer than 2 distinct epochs.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrSingularDesignMatrix indicates a rank-deficient regression design
	// matrix (XᵀWX not invertible).
	ErrSingularDesignMatrix = errors.New("singular design matrix")

	// ErrNonConvergentSampling indicates the nested-sampling capability
	// failed to produce a usable posterior within its budget.
	ErrNonConvergentSampling = errors.New("non-convergent sampling")

	// ErrDegenerateFrequencyRange indicates a periodogram search window
	// with minimum period >= maximum period.
	ErrDegenerateFrequencyRange = errors.New("degenerate frequency range")

	// ErrDimensionMismatch indicates caller-supplied arrays whose lengths
	// do not agree.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidUncertainty indicates a measurement uncertainty or weight
	// that is not finite and positive.
	ErrInvalidUncertainty = errors.New("invalid uncertainty")

	// ErrInvalidPeriod indicates a non-positive or non-finite trial period.
	ErrInvalidPeriod = errors.New("invalid period")
)
