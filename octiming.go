// Package octiming estimates a linear ephemeris — an orbital period and
// reference epoch — from observed event times with heteroscedastic
// uncertainties, and searches the fit residuals for additional periodic
// timing variations.
//
// The pipeline is stage-sequential and pure: every stage consumes the
// immutable output of the previous one and produces a new immutable
// result. Only the nested-sampling stage is stochastic, and it is
// reproducible under a fixed seed.
//
// # Basic Usage
//
// Fitting a linear ephemeris to mid-transit times:
//
//	import "github.com/oclab/octiming"
//	import "github.com/oclab/octiming/fit"
//
//	ds, _ := fit.NewDataset(times, sigmas)
//
//	// Weighted least squares first guess, then ±0.1 search bounds.
//	boot, _ := fit.Bootstrap(ds, 2.52)
//	res, _ := octiming.Fit(times, sigmas, fit.Explicit(boot.Bounds(0.1)),
//	    fit.WithSeed(1))
//
//	period := res.Slope()
//	fmt.Printf("P = %.7f +- %.7f d\n", period.Value, period.Stdev)
//
// Searching the residuals for timing variations:
//
//	ta, _ := octiming.Analyze(res, sigmas)
//	fmt.Printf("dominant signal: %.2f epochs (FAP %.3f)\n",
//	    ta.First.BestPeriod, ta.First.FalseAlarmProbability)
//
// # Package Structure
//
// This package wraps the pipeline for the common case. For fine-grained
// control use the subpackages directly: fit (bounds, epochs, estimator),
// sampler (the nested-sampling capability), periodogram (spectral
// search), harmonic (refits and phase binning), lsq (weighted least
// squares).
package octiming

import (
	"github.com/oclab/octiming/fit"
	"github.com/oclab/octiming/harmonic"
	"github.com/oclab/octiming/periodogram"
)

// secondPassMaxPeriod caps the detrended second periodogram pass at 50
// cycles, where the first pass searches out to 3x the epoch baseline.
// The two passes deliberately use different maximum-period policies: the
// first hunts the dominant long-period signal, the second a bounded
// window for a secondary short-period one.
const secondPassMaxPeriod = 50

// Fit estimates the linear ephemeris by nested sampling inside the given
// bounds. It is shorthand for fit.NewDataset + fit.New + Run.
func Fit(times, sigmas []float64, src fit.BoundsSource, opts ...fit.Option) (*fit.Result, error) {
	ds, err := fit.NewDataset(times, sigmas)
	if err != nil {
		return nil, err
	}

	est, err := fit.New(ds, src, opts...)
	if err != nil {
		return nil, err
	}

	return est.Run()
}

// TimingAnalysis bundles the two-pass residual search: the broad first
// periodogram with its harmonic fit, and the second pass over the
// detrended residuals with the combined two-period fit.
type TimingAnalysis struct {
	// First is the broad periodogram of the O−C residuals; FirstHarmonic
	// the single-period refit at its best period; FirstFolded the
	// residuals folded and binned at that period.
	First         *periodogram.Result
	FirstHarmonic *harmonic.Fit
	FirstFolded   *harmonic.Folded

	// Detrended are the residuals minus the first harmonic fit.
	Detrended []float64

	// Second is the periodogram of the detrended residuals under the
	// fixed 50-cycle cap; SecondHarmonic the two-period refit of the
	// original residuals; SecondFolded the detrended residuals folded
	// and binned at the secondary period.
	Second         *periodogram.Result
	SecondHarmonic *harmonic.Fit
	SecondFolded   *harmonic.Folded
}

// Analyze runs the residual spectral-analysis pipeline on a fit result:
// periodogram search, harmonic refit, detrend, second search, two-period
// refit. A failing stage aborts the remainder and returns its typed
// error; results from completed stages are not retained.
//
// Periodogram options apply to both passes, except the second pass
// always caps the maximum period at 50 cycles.
func Analyze(res *fit.Result, sigmas []float64, opts ...periodogram.Option) (*TimingAnalysis, error) {
	epochs := make([]float64, len(res.Epochs))
	for i, e := range res.Epochs {
		epochs[i] = float64(e)
	}

	first, err := periodogram.Analyze(epochs, res.Residuals, sigmas, opts...)
	if err != nil {
		return nil, err
	}

	h1, err := harmonic.Refit(epochs, res.Residuals, sigmas, first.BestPeriod)
	if err != nil {
		return nil, err
	}

	f1, err := harmonic.Fold(epochs, res.Residuals, sigmas, first.BestPeriod)
	if err != nil {
		return nil, err
	}

	detrended := make([]float64, len(res.Residuals))
	for i := range detrended {
		detrended[i] = res.Residuals[i] - h1.Fitted[i]
	}

	secondOpts := append(append([]periodogram.Option{}, opts...),
		periodogram.WithMaxPeriod(secondPassMaxPeriod))
	second, err := periodogram.Analyze(epochs, detrended, sigmas, secondOpts...)
	if err != nil {
		return nil, err
	}

	h2, err := harmonic.Refit(epochs, res.Residuals, sigmas, first.BestPeriod, second.BestPeriod)
	if err != nil {
		return nil, err
	}

	f2, err := harmonic.Fold(epochs, detrended, sigmas, second.BestPeriod)
	if err != nil {
		return nil, err
	}

	return &TimingAnalysis{
		First:          first,
		FirstHarmonic:  h1,
		FirstFolded:    f1,
		Detrended:      detrended,
		Second:         second,
		SecondHarmonic: h2,
		SecondFolded:   f2,
	}, nil
}
