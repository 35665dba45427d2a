package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oclab/octiming/errs"
)

// gaussianProblem is a separable 2-D Gaussian likelihood on [0,10]².
type gaussianProblem struct {
	mu, sigma []float64
}

func (g *gaussianProblem) ParameterNames() []string { return []string{"x", "y"} }

func (g *gaussianProblem) LogLikelihood(theta []float64) float64 {
	var chi2 float64
	for i := range theta {
		d := (theta[i] - g.mu[i]) / g.sigma[i]
		chi2 += d * d
	}

	return -0.5 * chi2
}

func (g *gaussianProblem) PriorTransform(u []float64) []float64 {
	theta := make([]float64, len(u))
	for i := range u {
		theta[i] = 10 * u[i]
	}

	return theta
}

func TestNestedRecoversGaussian(t *testing.T) {
	p := &gaussianProblem{mu: []float64{3.0, 7.0}, sigma: []float64{0.2, 0.5}}
	cfg := Config{MaxEvaluations: 40000, MinLivePoints: 200, Seed: 7}

	res, err := NewNested().Sample(p, cfg)
	require.NoError(t, err)

	// The posterior mean and the maximum-likelihood point should both sit
	// close to the true center, well within a tenth of the prior width.
	for i := range p.mu {
		require.InDelta(t, p.mu[i], res.Mean[i], 3*p.sigma[i])
		require.InDelta(t, p.mu[i], res.MaxLikelihoodPoint[i], 3*p.sigma[i])
		require.Greater(t, res.Stdev[i], 0.0)
		require.Less(t, res.ErrLo[i], res.ErrUp[i])
		require.Less(t, res.ErrLo[i], res.Mean[i]+p.sigma[i])
		require.Greater(t, res.ErrUp[i], res.Mean[i]-p.sigma[i])
	}
	require.LessOrEqual(t, res.Evaluations, cfg.MaxEvaluations)
}

func TestNestedWeightsNormalized(t *testing.T) {
	p := &gaussianProblem{mu: []float64{5.0, 5.0}, sigma: []float64{1.0, 1.0}}

	res, err := NewNested().Sample(p, Config{MaxEvaluations: 20000, MinLivePoints: 100, Seed: 3})
	require.NoError(t, err)

	var sum float64
	for _, w := range res.Samples.Weights {
		require.GreaterOrEqual(t, w, 0.0)
		sum += w
	}
	require.InDelta(t, 1.0, sum, 1e-6)

	require.Len(t, res.Samples.LogL, len(res.Samples.Points))
	require.Len(t, res.Samples.Weights, len(res.Samples.Points))
}

func TestNestedDeterministicUnderSeed(t *testing.T) {
	p := &gaussianProblem{mu: []float64{2.0, 8.0}, sigma: []float64{0.4, 0.4}}
	cfg := Config{MaxEvaluations: 10000, MinLivePoints: 50, Seed: 42}

	a, err := NewNested().Sample(p, cfg)
	require.NoError(t, err)
	b, err := NewNested().Sample(p, cfg)
	require.NoError(t, err)

	require.Equal(t, a.Evaluations, b.Evaluations)
	require.Equal(t, a.Mean, b.Mean)
	require.Equal(t, a.MaxLikelihoodPoint, b.MaxLikelihoodPoint)
	require.Equal(t, a.LogEvidence, b.LogEvidence)
}

type nanProblem struct{}

func (nanProblem) ParameterNames() []string            { return []string{"x"} }
func (nanProblem) LogLikelihood([]float64) float64     { return math.NaN() }
func (nanProblem) PriorTransform(u []float64) []float64 { return u }

func TestNestedNoViableLivePoints(t *testing.T) {
	_, err := NewNested().Sample(nanProblem{}, Config{MaxEvaluations: 500, MinLivePoints: 10, Seed: 1})
	require.ErrorIs(t, err, errs.ErrNonConvergentSampling)
}

func TestNestedBudgetTooSmall(t *testing.T) {
	p := &gaussianProblem{mu: []float64{5, 5}, sigma: []float64{1, 1}}

	_, err := NewNested().Sample(p, Config{MaxEvaluations: 10, MinLivePoints: 100, Seed: 1})
	require.ErrorIs(t, err, errs.ErrNonConvergentSampling)
}

func TestLogSumHelpers(t *testing.T) {
	require.InDelta(t, math.Log(3), logAddExp(math.Log(1), math.Log(2)), 1e-12)
	require.InDelta(t, math.Log(1), logSubExp(math.Log(3), math.Log(2)), 1e-12)
	require.InDelta(t, math.Log(2), logAddExp(math.Inf(-1), math.Log(2)), 1e-12)
}
