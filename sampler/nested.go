package sampler

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/oclab/octiming/errs"
)

// walkSteps is the length of the constrained random walk used to replace
// the worst live point. Longer walks decorrelate replacements better at
// proportionally higher likelihood cost.
const walkSteps = 20

// stopLogFrac terminates iteration once the live points can contribute
// less than exp(stopLogFrac) of the accumulated evidence.
const stopLogFrac = -9.21 // ln(1e-4)

// Nested is the bundled nested sampler: a classic shrinking live-point
// scheme with constrained random-walk replacement in the unit cube.
//
// It is deliberately simple — single-threaded, no clustering — but exact
// in its bookkeeping, which is what the two-parameter ephemeris posterior
// needs. Runs are reproducible for a fixed Config.Seed.
type Nested struct{}

// NewNested returns the bundled nested sampler.
func NewNested() *Nested { return &Nested{} }

var _ Sampler = (*Nested)(nil)

// Sample runs nested sampling on p until the evidence estimate stabilizes
// or the evaluation budget is exhausted, whichever comes first.
//
// Returns errs.ErrNonConvergentSampling when no viable live population can
// be formed (e.g. the likelihood is NaN over the whole prior volume) or
// the configuration leaves no room to sample.
func (s *Nested) Sample(p Problem, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	names := p.ParameterNames()
	dim := len(names)
	if dim == 0 {
		return nil, fmt.Errorf("%w: problem has no free parameters", errs.ErrNonConvergentSampling)
	}
	nlive := cfg.MinLivePoints
	if nlive < 2 {
		nlive = 2
	}
	if cfg.MaxEvaluations < 2*nlive {
		return nil, fmt.Errorf("%w: budget of %d evaluations cannot support %d live points",
			errs.ErrNonConvergentSampling, cfg.MaxEvaluations, nlive)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	liveU := make([][]float64, nlive)
	liveT := make([][]float64, nlive)
	liveL := make([]float64, nlive)
	evals := 0

	bestLogL := math.Inf(-1)
	var bestTheta []float64
	record := func(theta []float64, logl float64) {
		if logl > bestLogL {
			bestLogL = logl
			bestTheta = cloneVec(theta)
		}
	}

	// Seed the live population from the prior. NaN likelihoods mark
	// unviable points and are redrawn within the budget.
	for i := 0; i < nlive; i++ {
		viable := false
		for evals < cfg.MaxEvaluations {
			u := make([]float64, dim)
			for j := range u {
				u[j] = rng.Float64()
			}
			theta := p.PriorTransform(u)
			logl := p.LogLikelihood(theta)
			evals++
			if math.IsNaN(logl) {
				continue
			}
			liveU[i] = u
			liveT[i] = cloneVec(theta)
			liveL[i] = logl
			record(theta, logl)
			viable = true

			break
		}
		if !viable {
			return nil, fmt.Errorf("%w: zero viable live points after %d evaluations",
				errs.ErrNonConvergentSampling, evals)
		}
	}

	var (
		deadT [][]float64
		deadL []float64
		deadW []float64 // ln(volume shell)
	)
	logZ := math.Inf(-1)
	logXprev := 0.0

	for iter := 1; evals < cfg.MaxEvaluations; iter++ {
		worst := argMin(liveL)
		logX := -float64(iter) / float64(nlive)
		logW := logSubExp(logXprev, logX)

		deadT = append(deadT, liveT[worst])
		deadL = append(deadL, liveL[worst])
		deadW = append(deadW, logW)
		logZ = logAddExp(logZ, logW+liveL[worst])
		logXprev = logX

		maxLive := liveL[argMax(liveL)]
		if !math.IsInf(logZ, -1) && logXprev+maxLive-logZ < stopLogFrac {
			break
		}

		// Replace the worst point: constrained random walk from a
		// surviving live point, accepting only L > Lmin. Proposals follow
		// the live-population covariance so anisotropic and correlated
		// posteriors (a near-degenerate slope/intercept ellipse) mix.
		src := rng.Intn(nlive)
		for src == worst {
			src = rng.Intn(nlive)
		}
		u := cloneVec(liveU[src])
		theta := cloneVec(liveT[src])
		logl := liveL[src]
		lmin := deadL[len(deadL)-1]
		prop := newProposal(liveU, dim)

		scale := 1.0
		for k := 0; k < walkSteps && evals < cfg.MaxEvaluations; k++ {
			cand := prop.step(rng, u, scale)
			candT := p.PriorTransform(cand)
			candL := p.LogLikelihood(candT)
			evals++
			if !math.IsNaN(candL) && candL > lmin {
				u, theta, logl = cand, cloneVec(candT), candL
				record(candT, candL)
				scale *= 1.2
			} else {
				scale *= 0.8
			}
			if scale < 1e-6 {
				scale = 1e-6
			}
		}

		liveU[worst] = u
		liveT[worst] = theta
		liveL[worst] = logl
	}

	// The surviving live points share the remaining prior volume equally.
	logWlive := logXprev - math.Log(float64(nlive))
	for i := 0; i < nlive; i++ {
		deadT = append(deadT, liveT[i])
		deadL = append(deadL, liveL[i])
		deadW = append(deadW, logWlive)
		logZ = logAddExp(logZ, logWlive+liveL[i])
	}

	if math.IsInf(logZ, -1) || math.IsNaN(logZ) {
		return nil, fmt.Errorf("%w: evidence accumulation produced lnZ=%g",
			errs.ErrNonConvergentSampling, logZ)
	}

	return reduce(names, deadT, deadL, deadW, logZ, bestTheta, bestLogL, evals), nil
}

// reduce converts the dead-point set into normalized weighted samples and
// per-parameter posterior summaries.
func reduce(names []string, points [][]float64, logl, logw []float64, logZ float64, bestTheta []float64, bestLogL float64, evals int) *Result {
	n := len(points)
	dim := len(names)
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = math.Exp(logw[i] + logl[i] - logZ)
	}

	res := &Result{
		Names:              names,
		MaxLikelihoodPoint: bestTheta,
		MaxLogL:            bestLogL,
		Mean:               make([]float64, dim),
		Stdev:              make([]float64, dim),
		ErrLo:              make([]float64, dim),
		ErrUp:              make([]float64, dim),
		LogEvidence:        logZ,
		Samples: WeightedSamples{
			Points:  points,
			LogL:    logl,
			Weights: weights,
		},
		Evaluations: evals,
	}

	col := make([]float64, n)
	wcol := make([]float64, n)
	for j := 0; j < dim; j++ {
		for i := range points {
			col[i] = points[i][j]
			wcol[i] = weights[i]
		}
		res.Mean[j] = stat.Mean(col, wcol)
		res.Stdev[j] = stat.StdDev(col, wcol)

		stat.SortWeighted(col, wcol)
		res.ErrLo[j] = stat.Quantile(0.1587, stat.Empirical, col, wcol)
		res.ErrUp[j] = stat.Quantile(0.8413, stat.Empirical, col, wcol)
	}

	return res
}

// proposal draws correlated random-walk steps shaped like the live-point
// population: a Cholesky factor of the empirical covariance when it is
// positive definite, per-dimension standard deviations otherwise.
type proposal struct {
	factor *mat.TriDense // lower Cholesky factor, nil for diagonal fallback
	diag   []float64
	dim    int
}

func newProposal(liveU [][]float64, dim int) *proposal {
	n := len(liveU)
	data := mat.NewDense(n, dim, nil)
	for i, u := range liveU {
		data.SetRow(i, u)
	}

	cov := mat.NewSymDense(dim, nil)
	stat.CovarianceMatrix(cov, data, nil)

	var chol mat.Cholesky
	if chol.Factorize(cov) {
		var l mat.TriDense
		chol.LTo(&l)

		return &proposal{factor: &l, dim: dim}
	}

	// Degenerate population: fall back to independent per-dimension steps.
	diag := make([]float64, dim)
	for j := 0; j < dim; j++ {
		s := math.Sqrt(cov.At(j, j))
		if s <= 0 || math.IsNaN(s) {
			s = 1e-6
		}
		diag[j] = s
	}

	return &proposal{diag: diag, dim: dim}
}

// step proposes u + scale·L·z reflected back into the unit cube, with z a
// standard normal vector and L the covariance factor.
func (pr *proposal) step(rng *rand.Rand, u []float64, scale float64) []float64 {
	z := make([]float64, pr.dim)
	for j := range z {
		z[j] = rng.NormFloat64()
	}

	out := make([]float64, pr.dim)
	if pr.factor != nil {
		for j := 0; j < pr.dim; j++ {
			var d float64
			for k := 0; k <= j; k++ {
				d += pr.factor.At(j, k) * z[k]
			}
			out[j] = reflectUnit(u[j] + scale*d)
		}

		return out
	}

	for j := 0; j < pr.dim; j++ {
		out[j] = reflectUnit(u[j] + scale*pr.diag[j]*z[j])
	}

	return out
}

// reflectUnit folds x back into [0,1] by reflection at the boundaries.
func reflectUnit(x float64) float64 {
	for x < 0 || x > 1 {
		if x < 0 {
			x = -x
		}
		if x > 1 {
			x = 2 - x
		}
	}

	return x
}

func cloneVec(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)

	return out
}

func argMin(v []float64) int {
	idx := 0
	for i, x := range v {
		if x < v[idx] {
			idx = i
		}
	}

	return idx
}

func argMax(v []float64) int {
	idx := 0
	for i, x := range v {
		if x > v[idx] {
			idx = i
		}
	}

	return idx
}
