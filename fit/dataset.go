// Package fit estimates a linear ephemeris — orbital period and reference
// epoch — from observed event times with heteroscedastic uncertainties.
//
// The estimation pipeline is stage-sequential and pure: a Dataset and a
// BoundsSource produce an Estimator, the Estimator drives the injected
// nested-sampling capability, and the run reduces to an immutable Result
// (epochs, posterior summaries, model times, residuals, weighted samples).
// Re-running produces a new Result; nothing mutates upstream values.
package fit

import (
	"fmt"
	"math"

	"github.com/oclab/octiming/errs"
)

// Dataset pairs observed event times with their one-sigma measurement
// uncertainties. It is immutable once constructed; NewDataset copies the
// caller's slices.
type Dataset struct {
	times  []float64
	sigmas []float64
}

// NewDataset validates and copies the observation arrays.
//
// Returns errs.ErrDimensionMismatch when the arrays disagree in length,
// errs.ErrInsufficientData for fewer than 2 observations, and
// errs.ErrInvalidUncertainty when any time or uncertainty is not finite or
// an uncertainty is not positive.
func NewDataset(times, sigmas []float64) (Dataset, error) {
	if len(times) != len(sigmas) {
		return Dataset{}, fmt.Errorf("%w: %d times vs %d uncertainties",
			errs.ErrDimensionMismatch, len(times), len(sigmas))
	}
	if len(times) < 2 {
		return Dataset{}, fmt.Errorf("%w: need at least 2 observations, got %d",
			errs.ErrInsufficientData, len(times))
	}
	for i := range times {
		if math.IsNaN(times[i]) || math.IsInf(times[i], 0) {
			return Dataset{}, fmt.Errorf("%w: time %g at index %d", errs.ErrInvalidUncertainty, times[i], i)
		}
		if !(sigmas[i] > 0) || math.IsInf(sigmas[i], 0) {
			return Dataset{}, fmt.Errorf("%w: uncertainty %g at index %d", errs.ErrInvalidUncertainty, sigmas[i], i)
		}
	}

	ds := Dataset{
		times:  make([]float64, len(times)),
		sigmas: make([]float64, len(sigmas)),
	}
	copy(ds.times, times)
	copy(ds.sigmas, sigmas)

	return ds, nil
}

// Len returns the observation count.
func (d Dataset) Len() int { return len(d.times) }

// Times returns a copy of the observed event times.
func (d Dataset) Times() []float64 {
	out := make([]float64, len(d.times))
	copy(out, d.times)

	return out
}

// Sigmas returns a copy of the per-observation uncertainties.
func (d Dataset) Sigmas() []float64 {
	out := make([]float64, len(d.sigmas))
	copy(out, d.sigmas)

	return out
}

// Weights returns the inverse-variance regression weights 1/σ².
func (d Dataset) Weights() []float64 {
	out := make([]float64, len(d.sigmas))
	for i, s := range d.sigmas {
		out[i] = 1 / (s * s)
	}

	return out
}
