package fit

import (
	"errors"
	"fmt"

	"github.com/oclab/octiming/errs"
	"github.com/oclab/octiming/internal/options"
)

// Estimator drives the nested-sampling capability over the two-parameter
// linear ephemeris. Construct with New, run with Run; every Run produces
// a fresh Result.
type Estimator struct {
	ds     Dataset
	bounds Bounds
	cfg    *config
}

// New resolves the bounds source, validates it, and applies options.
func New(ds Dataset, src BoundsSource, opts ...Option) (*Estimator, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%w: empty dataset", errs.ErrInsufficientData)
	}

	bounds, err := src.resolve()
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Estimator{ds: ds, bounds: bounds, cfg: cfg}, nil
}

// Run maps epochs from the bounds midpoints, hands the chi-square
// likelihood and affine prior transform to the sampler, and reduces the
// posterior into a Result.
//
// Returns errs.ErrInsufficientData when the observations collapse onto
// fewer than 2 distinct epochs, and errs.ErrNonConvergentSampling when
// the sampler fails; the underlying sampler failure is wrapped, not
// masked.
func (e *Estimator) Run() (*Result, error) {
	slope0 := e.bounds[ParamSlope].Mid()
	intercept0 := e.bounds[ParamIntercept].Mid()

	epochs, err := MapEpochs(e.ds.times, slope0, intercept0)
	if err != nil {
		return nil, err
	}
	if distinctEpochs(epochs) < 2 {
		return nil, fmt.Errorf("%w: %d observations map to fewer than 2 distinct epochs",
			errs.ErrInsufficientData, e.ds.Len())
	}

	prob := newProblem(e.bounds, epochs, e.ds)
	res, err := e.cfg.sampler.Sample(prob, e.cfg.sampCfg)
	if err != nil {
		if errors.Is(err, errs.ErrNonConvergentSampling) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", errs.ErrNonConvergentSampling, err)
	}

	params := make(map[string]Estimate, len(prob.names))
	for i, name := range prob.names {
		params[name] = Estimate{
			Value: res.MaxLikelihoodPoint[i],
			Stdev: res.Stdev[i],
			ErrLo: res.ErrLo[i],
			ErrUp: res.ErrUp[i],
		}
	}

	slope := params[ParamSlope].Value
	intercept := params[ParamIntercept].Value

	return &Result{
		Epochs:      epochs,
		Parameters:  params,
		Model:       ModelTimes(epochs, slope, intercept),
		Residuals:   Residuals(e.ds.times, epochs, slope, intercept),
		Samples:     res.Samples,
		LogEvidence: res.LogEvidence,
	}, nil
}

// problem carries the likelihood context explicitly: bounds geometry,
// epoch numbers and the dataset. It implements sampler.Problem without
// closing over any outer scope.
type problem struct {
	names  []string
	lows   []float64
	widths []float64
	epochs []float64
	times  []float64
	sigmas []float64
}

func newProblem(bounds Bounds, epochs []int, ds Dataset) *problem {
	p := &problem{
		names:  paramOrder,
		lows:   make([]float64, len(paramOrder)),
		widths: make([]float64, len(paramOrder)),
		epochs: make([]float64, len(epochs)),
		times:  ds.times,
		sigmas: ds.sigmas,
	}
	for i, name := range paramOrder {
		iv := bounds[name]
		p.lows[i] = iv.Low
		p.widths[i] = iv.Width()
	}
	for i, e := range epochs {
		p.epochs[i] = float64(e)
	}

	return p
}

func (p *problem) ParameterNames() []string { return p.names }

// PriorTransform is the affine bijection low + width·u from the unit cube
// into the bounded parameter volume.
func (p *problem) PriorTransform(u []float64) []float64 {
	theta := make([]float64, len(u))
	for i := range u {
		theta[i] = p.lows[i] + p.widths[i]*u[i]
	}

	return theta
}

// LogLikelihood is the chi-square likelihood of the linear model,
// ln L = −0.5 Σ ((t − (m·epoch + b))/σ)².
func (p *problem) LogLikelihood(theta []float64) float64 {
	m, b := theta[0], theta[1]
	var chi2 float64
	for i := range p.times {
		d := (p.times[i] - (m*p.epochs[i] + b)) / p.sigmas[i]
		chi2 += d * d
	}

	return -0.5 * chi2
}
