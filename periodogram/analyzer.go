package periodogram

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/oclab/octiming/errs"
	"github.com/oclab/octiming/internal/options"
)

// fapTargets are the canonical false-alarm probabilities reported as
// power thresholds.
var fapTargets = []float64{0.01, 0.05, 0.1}

// Level pairs a false-alarm probability with the power a peak must exceed
// to be more significant than that probability.
type Level struct {
	Probability float64
	Power       float64
}

// Result is the outcome of one periodogram search.
type Result struct {
	// Frequencies is the trial grid (cycles per epoch) and Power the GLS
	// power at each frequency.
	Frequencies []float64
	Power       []float64

	// MinPeriod and MaxPeriod record the searched window in epochs.
	MinPeriod float64
	MaxPeriod float64

	// BestFrequency maximizes the power; BestPeriod is its inverse.
	BestFrequency float64
	BestPeriod    float64
	PeakPower     float64

	// FalseAlarmProbability is the bootstrap probability that the
	// observed peak power arises from noise alone; FalseAlarmLevels are
	// the thresholds at the canonical targets.
	FalseAlarmProbability float64
	FalseAlarmLevels      []Level
}

// Analyze searches the residual series for its dominant periodic signal.
//
// The window is derived from the sampling: minimum period
// max(2, 2·min epoch spacing), maximum period 3× the epoch baseline
// unless WithMaxPeriod caps it (the detrended second pass fixes the cap
// at 50 cycles by design — the two passes deliberately use different
// maximum-period policies).
//
// Returns errs.ErrInsufficientData for fewer than 2 points and
// errs.ErrDegenerateFrequencyRange when the derived window is empty.
func Analyze(epochs, residuals, sigmas []float64, opts ...Option) (*Result, error) {
	n := len(epochs)
	if len(residuals) != n || len(sigmas) != n {
		return nil, fmt.Errorf("%w: %d epochs vs %d residuals vs %d uncertainties",
			errs.ErrDimensionMismatch, n, len(residuals), len(sigmas))
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", errs.ErrInsufficientData, n)
	}

	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	minPeriod, maxPeriod, err := periodRange(epochs, cfg.maxPeriod)
	if err != nil {
		return nil, err
	}

	baseline := floats.Max(epochs) - floats.Min(epochs)
	freqs := frequencyGrid(1/maxPeriod, 1/minPeriod, baseline, cfg.oversample)
	pw := power(epochs, residuals, sigmas, freqs)

	peak := floats.MaxIdx(pw)
	res := &Result{
		Frequencies:   freqs,
		Power:         pw,
		MinPeriod:     minPeriod,
		MaxPeriod:     maxPeriod,
		BestFrequency: freqs[peak],
		BestPeriod:    1 / freqs[peak],
		PeakPower:     pw[peak],
	}

	res.FalseAlarmProbability, res.FalseAlarmLevels = bootstrapFalseAlarm(
		epochs, residuals, sigmas, freqs, res.PeakPower, cfg.bootstraps, cfg.seed)

	return res, nil
}

// periodRange derives the searchable window from the epoch sampling.
func periodRange(epochs []float64, capPeriod float64) (minPeriod, maxPeriod float64, err error) {
	sorted := make([]float64, len(epochs))
	copy(sorted, epochs)
	sort.Float64s(sorted)

	minSpacing := math.Inf(1)
	for i := 1; i < len(sorted); i++ {
		if d := sorted[i] - sorted[i-1]; d < minSpacing {
			minSpacing = d
		}
	}

	minPeriod = math.Max(2, 2*minSpacing)
	maxPeriod = 3 * (sorted[len(sorted)-1] - sorted[0])
	if capPeriod > 0 {
		maxPeriod = capPeriod
	}

	if minPeriod >= maxPeriod {
		return 0, 0, fmt.Errorf("%w: min period %g >= max period %g",
			errs.ErrDegenerateFrequencyRange, minPeriod, maxPeriod)
	}

	return minPeriod, maxPeriod, nil
}

// frequencyGrid builds a linear frequency grid with spacing
// 1/(oversample·baseline), inclusive of both window edges.
func frequencyGrid(fmin, fmax, baseline float64, oversample int) []float64 {
	df := 1 / (float64(oversample) * baseline)
	count := int(math.Ceil((fmax-fmin)/df)) + 1
	if count < 2 {
		count = 2
	}

	grid := make([]float64, count)

	return floats.Span(grid, fmin, fmax)
}

// bootstrapFalseAlarm estimates peak significance by resampling the
// residual/uncertainty pairs with replacement over the same epochs and
// grid, recording the maximum power of each noise realization.
func bootstrapFalseAlarm(epochs, residuals, sigmas, freqs []float64, observed float64, rounds int, seed uint64) (float64, []Level) {
	rng := rand.New(rand.NewSource(seed))
	n := len(epochs)

	y := make([]float64, n)
	s := make([]float64, n)
	maxima := make([]float64, rounds)
	exceed := 0
	for b := 0; b < rounds; b++ {
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			y[i] = residuals[j]
			s[i] = sigmas[j]
		}
		pw := power(epochs, y, s, freqs)
		m := pw[floats.MaxIdx(pw)]
		maxima[b] = m
		if m >= observed {
			exceed++
		}
	}

	sort.Float64s(maxima)
	levels := make([]Level, len(fapTargets))
	for i, p := range fapTargets {
		levels[i] = Level{
			Probability: p,
			Power:       stat.Quantile(1-p, stat.Empirical, maxima, nil),
		}
	}

	return float64(exceed) / float64(rounds), levels
}
