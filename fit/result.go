package fit

import (
	"github.com/oclab/octiming/sampler"
)

// Estimate summarizes the posterior of one parameter: the
// maximum-likelihood point estimate, the posterior standard deviation,
// and the one-sigma equal-tail credible bounds.
type Estimate struct {
	Value float64
	Stdev float64
	ErrLo float64
	ErrUp float64
}

// Result is the immutable outcome of one estimation run.
type Result struct {
	// Epochs are the integer cycle numbers assigned to each observation.
	Epochs []int

	// Parameters holds the posterior summary for ParamSlope and
	// ParamIntercept.
	Parameters map[string]Estimate

	// Model are the fitted event times slope·epoch + intercept.
	Model []float64

	// Residuals are the observed-minus-calculated values.
	Residuals []float64

	// Samples is the full weighted posterior sample set, exposed for the
	// external rendering layer.
	Samples sampler.WeightedSamples

	// LogEvidence is the sampler's ln Z estimate.
	LogEvidence float64
}

// Slope returns the posterior summary of the period parameter.
func (r *Result) Slope() Estimate { return r.Parameters[ParamSlope] }

// Intercept returns the posterior summary of the reference-time parameter.
func (r *Result) Intercept() Estimate { return r.Parameters[ParamIntercept] }

// ModelTimes evaluates the linear ephemeris at the given epochs.
func ModelTimes(epochs []int, slope, intercept float64) []float64 {
	out := make([]float64, len(epochs))
	for i, e := range epochs {
		out[i] = slope*float64(e) + intercept
	}

	return out
}

// Residuals computes observed − calculated for a fitted parameter pair.
// NaN inputs propagate; there are no other failure modes.
func Residuals(times []float64, epochs []int, slope, intercept float64) []float64 {
	out := make([]float64, len(times))
	for i := range times {
		out[i] = times[i] - (slope*float64(epochs[i]) + intercept)
	}

	return out
}
