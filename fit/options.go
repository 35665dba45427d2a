package fit

import (
	"fmt"

	"github.com/oclab/octiming/errs"
	"github.com/oclab/octiming/internal/options"
	"github.com/oclab/octiming/sampler"
)

type config struct {
	sampler sampler.Sampler
	sampCfg sampler.Config
}

func defaultConfig() *config {
	return &config{
		sampler: sampler.NewNested(),
		sampCfg: sampler.Config{
			MaxEvaluations: sampler.DefaultMaxEvaluations,
			MinLivePoints:  sampler.DefaultMinLivePoints,
		},
	}
}

// Option configures an Estimator.
type Option = options.Option[*config]

// WithSampler injects a nested-sampling implementation, replacing the
// bundled one. Tests use this to substitute deterministic stubs.
func WithSampler(s sampler.Sampler) Option {
	return options.New(func(cfg *config) error {
		if s == nil {
			return fmt.Errorf("%w: nil sampler", errs.ErrNonConvergentSampling)
		}
		cfg.sampler = s

		return nil
	})
}

// WithMaxEvaluations bounds the sampler's likelihood-evaluation budget.
func WithMaxEvaluations(n int) Option {
	return options.New(func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: max evaluations must be positive, got %d", errs.ErrNonConvergentSampling, n)
		}
		cfg.sampCfg.MaxEvaluations = n

		return nil
	})
}

// WithMinLivePoints sets the sampler's live-point population size.
func WithMinLivePoints(n int) Option {
	return options.New(func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: min live points must be positive, got %d", errs.ErrNonConvergentSampling, n)
		}
		cfg.sampCfg.MinLivePoints = n

		return nil
	})
}

// WithSeed fixes the sampler RNG seed, making the run reproducible.
func WithSeed(seed uint64) Option {
	return options.New(func(cfg *config) error {
		cfg.sampCfg.Seed = seed

		return nil
	})
}
