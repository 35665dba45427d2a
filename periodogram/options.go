package periodogram

import (
	"fmt"

	"github.com/oclab/octiming/errs"
	"github.com/oclab/octiming/internal/options"
)

const (
	// DefaultOversample is the frequency-grid oversampling factor: grid
	// spacing is 1/(oversample·baseline).
	DefaultOversample = 8

	// DefaultBootstrapSamples is the number of resampled periodograms
	// behind the false-alarm estimates.
	DefaultBootstrapSamples = 200
)

type config struct {
	maxPeriod  float64 // 0 selects 3× the epoch baseline
	oversample int
	bootstraps int
	seed       uint64
}

func defaultConfig() *config {
	return &config{
		oversample: DefaultOversample,
		bootstraps: DefaultBootstrapSamples,
	}
}

// Option configures a periodogram analysis.
type Option = options.Option[*config]

// WithMaxPeriod caps the longest testable period instead of deriving it
// from the epoch baseline. The detrended second pass uses a fixed cap of
// 50 cycles where the first pass searches out to 3× the baseline.
func WithMaxPeriod(p float64) Option {
	return options.New(func(cfg *config) error {
		if !(p > 0) {
			return fmt.Errorf("%w: max period %g", errs.ErrInvalidPeriod, p)
		}
		cfg.maxPeriod = p

		return nil
	})
}

// WithOversample sets the frequency-grid oversampling factor.
func WithOversample(n int) Option {
	return options.New(func(cfg *config) error {
		if n < 1 {
			return fmt.Errorf("%w: oversample %d", errs.ErrDegenerateFrequencyRange, n)
		}
		cfg.oversample = n

		return nil
	})
}

// WithBootstrapSamples sets the resample count for false-alarm estimates.
func WithBootstrapSamples(n int) Option {
	return options.New(func(cfg *config) error {
		if n < 1 {
			return fmt.Errorf("%w: bootstrap samples %d", errs.ErrDegenerateFrequencyRange, n)
		}
		cfg.bootstraps = n

		return nil
	})
}

// WithSeed fixes the bootstrap RNG seed.
func WithSeed(seed uint64) Option {
	return options.New(func(cfg *config) error {
		cfg.seed = seed

		return nil
	})
}
