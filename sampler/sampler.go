// Package sampler defines the nested-sampling capability consumed by the
// fit package and provides a bundled reference implementation.
//
// Nested sampling maintains a population of live points inside the unit
// hypercube, repeatedly replacing the lowest-likelihood member with a new
// point drawn at higher likelihood. The dead points, weighted by the
// shrinking prior volume, form a weighted posterior sample set and an
// evidence estimate.
//
// The Sampler interface is the injection seam: estimation code depends on
// it rather than on the concrete algorithm, so tests can substitute a
// deterministic stub (an analytic posterior, a grid search) for the
// stochastic search.
package sampler

import "math"

// Default stopping criteria, matching the budget the library was tuned
// with. Both are configuration, never hardcoded inside the algorithm.
const (
	DefaultMaxEvaluations = 400000
	DefaultMinLivePoints  = 420
)

// Problem is the model handed to a Sampler: parameter names, a
// log-likelihood over parameter space, and the deterministic bijection
// from the unit hypercube to the prior volume. Implementations carry
// their data explicitly; no closure state is involved.
type Problem interface {
	// ParameterNames returns the free parameter names, fixing the
	// coordinate order used by the other two methods.
	ParameterNames() []string

	// LogLikelihood evaluates ln L at a point in parameter space.
	LogLikelihood(theta []float64) float64

	// PriorTransform maps a unit-cube point u ∈ [0,1]^k into the prior
	// volume.
	PriorTransform(u []float64) []float64
}

// Config holds the sampler stopping criteria and the RNG seed.
//
// MaxEvaluations bounds the number of likelihood calls; MinLivePoints sets
// the live population size. Zero values select the package defaults. The
// run is deterministic for a fixed Seed.
type Config struct {
	MaxEvaluations int
	MinLivePoints  int
	Seed           uint64
}

func (c Config) withDefaults() Config {
	if c.MaxEvaluations <= 0 {
		c.MaxEvaluations = DefaultMaxEvaluations
	}
	if c.MinLivePoints <= 0 {
		c.MinLivePoints = DefaultMinLivePoints
	}

	return c
}

// WeightedSamples is the full posterior sample set: one point per row with
// its log-likelihood and normalized importance weight. It is exposed for
// downstream visualization and diagnostics.
type WeightedSamples struct {
	Points  [][]float64
	LogL    []float64
	Weights []float64
}

// Len returns the number of posterior samples.
func (s WeightedSamples) Len() int { return len(s.Points) }

// Result reduces a sampling run to per-parameter summaries plus the raw
// weighted samples. Slices are indexed by parameter, in Names order.
type Result struct {
	Names []string

	// MaxLikelihoodPoint is the highest-likelihood point evaluated.
	MaxLikelihoodPoint []float64
	MaxLogL            float64

	// Mean and Stdev are the weighted posterior moments; ErrLo and ErrUp
	// are the one-sigma equal-tail credible bounds (15.87% and 84.13%
	// weighted quantiles).
	Mean  []float64
	Stdev []float64
	ErrLo []float64
	ErrUp []float64

	// LogEvidence is the nested-sampling estimate of ln Z.
	LogEvidence float64

	Samples     WeightedSamples
	Evaluations int
}

// Sampler runs nested sampling to convergence on a Problem. The call is
// synchronous and blocking; the Config budget is the only termination
// knob.
type Sampler interface {
	Sample(p Problem, cfg Config) (*Result, error)
}

// logAddExp returns ln(e^a + e^b) without overflow.
func logAddExp(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a < b {
		a, b = b, a
	}

	return a + math.Log1p(math.Exp(b-a))
}

// logSubExp returns ln(e^a − e^b) for a > b.
func logSubExp(a, b float64) float64 {
	if math.IsInf(b, -1) {
		return a
	}

	return a + math.Log1p(-math.Exp(b-a))
}
