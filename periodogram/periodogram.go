// Package periodogram searches O−C residuals for periodic structure with
// an error-weighted generalized Lomb–Scargle spectral estimator.
//
// The search window derives from the sampling itself: the shortest
// testable period follows the minimum epoch spacing, the longest follows
// the epoch baseline (or an explicit cap for a detrended second pass).
// Peak significance is quantified by a bootstrap false-alarm probability
// and by power thresholds at the canonical 1%, 5% and 10% levels.
package periodogram

import (
	"math"
)

// power evaluates the generalized Lomb–Scargle power spectrum (floating
// mean, weights 1/σ²) after Zechmeister & Kürster (2009) at each trial
// frequency. Power is normalized to [0, 1].
func power(x, y, sigmas, freqs []float64) []float64 {
	n := len(x)

	// Normalized inverse-variance weights.
	w := make([]float64, n)
	var wsum float64
	for i, s := range sigmas {
		w[i] = 1 / (s * s)
		wsum += w[i]
	}
	for i := range w {
		w[i] /= wsum
	}

	var ybar float64
	for i := range y {
		ybar += w[i] * y[i]
	}
	var yy float64
	for i := range y {
		d := y[i] - ybar
		yy += w[i] * d * d
	}

	out := make([]float64, len(freqs))
	for fi, f := range freqs {
		omega := 2 * math.Pi * f

		var c, s, cc, ss, cs, yc, ys float64
		for i := 0; i < n; i++ {
			sin, cos := math.Sincos(omega * x[i])
			wi := w[i]
			c += wi * cos
			s += wi * sin
			cc += wi * cos * cos
			cs += wi * cos * sin
			dy := y[i] - ybar
			yc += wi * dy * cos
			ys += wi * dy * sin
		}
		ss = 1 - cc

		// Center second moments on the weighted means; yc and ys are
		// already centered through dy.
		cc -= c * c
		ss -= s * s
		cs -= c * s

		d := cc*ss - cs*cs
		if d <= 0 || yy <= 0 {
			out[fi] = 0
			continue
		}
		p := (ss*yc*yc + cc*ys*ys - 2*cs*yc*ys) / (yy * d)
		if p < 0 {
			p = 0
		}
		out[fi] = p
	}

	return out
}
