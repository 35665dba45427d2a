package fit

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/oclab/octiming/errs"
	"github.com/oclab/octiming/lsq"
)

// BootstrapEstimate is the weighted least squares first guess at the
// ephemeris, used to seed search bounds for the nested-sampling stage.
type BootstrapEstimate struct {
	Slope          float64
	Intercept      float64
	SlopeStdev     float64
	InterceptStdev float64

	// Epochs are the cycle numbers assigned relative to the earliest
	// observation.
	Epochs []int
}

// Bootstrap fits the two-parameter linear model by weighted least
// squares, assigning epochs by rounding (t − t_min)/approxPeriod.
//
// The approximate period only has to be accurate enough to count cycles
// unambiguously; the returned slope and intercept refine it. Standard
// deviations come from the normalized covariance of the regression.
//
// Returns errs.ErrInvalidPeriod for a non-positive period and
// errs.ErrInsufficientData when fewer than 2 distinct epochs result.
func Bootstrap(ds Dataset, approxPeriod float64) (*BootstrapEstimate, error) {
	if !(approxPeriod > 0) {
		return nil, fmt.Errorf("%w: approximate period %g", errs.ErrInvalidPeriod, approxPeriod)
	}

	times := ds.Times()
	tmin := floats.Min(times)
	epochs, err := MapEpochs(times, approxPeriod, tmin)
	if err != nil {
		return nil, err
	}
	if distinctEpochs(epochs) < 2 {
		return nil, fmt.Errorf("%w: %d observations map to fewer than 2 distinct epochs",
			errs.ErrInsufficientData, ds.Len())
	}

	design := mat.NewDense(ds.Len(), 2, nil)
	for i, e := range epochs {
		design.Set(i, 0, 1)
		design.Set(i, 1, float64(e))
	}

	sol, err := lsq.Fit(design, times, ds.Weights())
	if err != nil {
		return nil, err
	}
	stdev := sol.Stdev()

	return &BootstrapEstimate{
		Slope:          sol.Coefficients[1],
		Intercept:      sol.Coefficients[0],
		SlopeStdev:     stdev[1],
		InterceptStdev: stdev[0],
		Epochs:         epochs,
	}, nil
}

// Bounds builds symmetric search bounds of ±halfWidth around the
// bootstrap slope and intercept.
func (b *BootstrapEstimate) Bounds(halfWidth float64) Bounds {
	return Bounds{
		ParamSlope:     {Low: b.Slope - halfWidth, High: b.Slope + halfWidth},
		ParamIntercept: {Low: b.Intercept - halfWidth, High: b.Intercept + halfWidth},
	}
}

// Prior expresses the bootstrap estimate as Gaussian reference values.
func (b *BootstrapEstimate) Prior() Prior {
	return Prior{
		ParamSlope:     {Mean: b.Slope, Stdev: b.SlopeStdev},
		ParamIntercept: {Mean: b.Intercept, Stdev: b.InterceptStdev},
	}
}
