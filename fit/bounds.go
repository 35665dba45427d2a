package fit

import (
	"fmt"
	"math"

	"github.com/oclab/octiming/errs"
)

// Free parameter names of the linear ephemeris model
// time(epoch) = slope·epoch + intercept.
const (
	ParamSlope     = "slope"
	ParamIntercept = "intercept"
)

// paramOrder fixes the coordinate order handed to the sampler.
var paramOrder = []string{ParamSlope, ParamIntercept}

// Interval is a closed search range [Low, High] for one parameter.
type Interval struct {
	Low  float64
	High float64
}

// Mid returns the interval midpoint.
func (iv Interval) Mid() float64 { return 0.5 * (iv.Low + iv.High) }

// Width returns High − Low.
func (iv Interval) Width() float64 { return iv.High - iv.Low }

func (iv Interval) valid() bool {
	return !math.IsNaN(iv.Low) && !math.IsInf(iv.Low, 0) &&
		!math.IsNaN(iv.High) && !math.IsInf(iv.High, 0) &&
		iv.Low < iv.High
}

// Bounds maps parameter names to their search intervals. Both ParamSlope
// and ParamIntercept are required, and the intervals must cover the true
// values or the fit is biased.
type Bounds map[string]Interval

// Validate checks that every required parameter has a finite interval
// with Low < High. Violations return errs.ErrInvalidBounds.
func (b Bounds) Validate() error {
	for _, name := range paramOrder {
		iv, ok := b[name]
		if !ok {
			return fmt.Errorf("%w: missing %q", errs.ErrInvalidBounds, name)
		}
		if !iv.valid() {
			return fmt.Errorf("%w: %q has [%g, %g]", errs.ErrInvalidBounds, name, iv.Low, iv.High)
		}
	}

	return nil
}

// Gaussian is a (mean, stdev) reference value for one parameter, e.g. a
// literature ephemeris. Priors only seed bound derivation and the external
// rendering overlay; the likelihood itself is uniform inside the bounds.
type Gaussian struct {
	Mean  float64
	Stdev float64
}

// Prior maps parameter names to Gaussian reference values.
type Prior map[string]Gaussian

// DefaultSigmaMultiplier is the half-width, in standard deviations, of
// bounds derived from a Prior.
const DefaultSigmaMultiplier = 3.0

// BoundsSource resolves to concrete search bounds at construction time.
// It replaces implicit "nil bounds means derive from prior" defaulting
// with an explicit choice: Explicit or DerivedFromPrior.
type BoundsSource interface {
	resolve() (Bounds, error)
}

type explicitSource struct {
	bounds Bounds
}

func (s explicitSource) resolve() (Bounds, error) {
	if err := s.bounds.Validate(); err != nil {
		return nil, err
	}
	out := make(Bounds, len(s.bounds))
	for k, v := range s.bounds {
		out[k] = v
	}

	return out, nil
}

// Explicit uses caller-supplied bounds as-is.
func Explicit(bounds Bounds) BoundsSource {
	return explicitSource{bounds: bounds}
}

type priorSource struct {
	prior      Prior
	multiplier float64
}

func (s priorSource) resolve() (Bounds, error) {
	k := s.multiplier
	if k <= 0 {
		k = DefaultSigmaMultiplier
	}
	out := make(Bounds, len(paramOrder))
	for _, name := range paramOrder {
		g, ok := s.prior[name]
		if !ok {
			return nil, fmt.Errorf("%w: prior missing %q", errs.ErrInvalidBounds, name)
		}
		out[name] = Interval{Low: g.Mean - k*g.Stdev, High: g.Mean + k*g.Stdev}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}

	return out, nil
}

// DerivedFromPrior derives bounds as mean ± sigmaMultiplier·stdev for each
// parameter. A non-positive multiplier selects DefaultSigmaMultiplier.
func DerivedFromPrior(prior Prior, sigmaMultiplier float64) BoundsSource {
	return priorSource{prior: prior, multiplier: sigmaMultiplier}
}
