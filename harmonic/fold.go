package harmonic

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/oclab/octiming/errs"
)

// BinEdgeCount is the number of phase-bin edges spanning [0, 1].
const BinEdgeCount = 8

// Binned summarizes phase-folded values per bin. Stats are indexed by
// edge: index i collects phases in [Edges[i−1], Edges[i]), so index 0 can
// never receive a point and reports (NaN, NaN).
//
// A bin with no points reports (NaN, NaN); exactly one point reports
// that value and its own measurement uncertainty; two or more report the
// sample mean and sample standard deviation.
type Binned struct {
	Edges  []float64
	Means  []float64
	Stdevs []float64
}

// Folded is a phase-folded series with its binned summary.
type Folded struct {
	Period float64
	Phases []float64
	Values []float64
	Binned Binned
}

// Fold maps the series onto [0, 1) phase with phase = epoch/period mod 1
// and bins it over BinEdgeCount equally spaced edges.
func Fold(epochs, values, sigmas []float64, period float64) (*Folded, error) {
	n := len(epochs)
	if len(values) != n || len(sigmas) != n {
		return nil, fmt.Errorf("%w: %d epochs vs %d values vs %d uncertainties",
			errs.ErrDimensionMismatch, n, len(values), len(sigmas))
	}
	if !(period > 0) || math.IsInf(period, 0) {
		return nil, fmt.Errorf("%w: %g", errs.ErrInvalidPeriod, period)
	}

	phases := make([]float64, n)
	for i, e := range epochs {
		p := math.Mod(e/period, 1)
		if p < 0 {
			p++
		}
		phases[i] = p
	}

	vals := make([]float64, n)
	copy(vals, values)

	return &Folded{
		Period: period,
		Phases: phases,
		Values: vals,
		Binned: bin(phases, values, sigmas),
	}, nil
}

// bin partitions phases over the edge grid and reduces each bin.
func bin(phases, values, sigmas []float64) Binned {
	edges := make([]float64, BinEdgeCount)
	floats.Span(edges, 0, 1)

	members := make([][]float64, BinEdgeCount)
	uncerts := make([][]float64, BinEdgeCount)
	for i, p := range phases {
		idx := digitize(p, edges)
		members[idx] = append(members[idx], values[i])
		uncerts[idx] = append(uncerts[idx], sigmas[i])
	}

	out := Binned{
		Edges:  edges,
		Means:  make([]float64, BinEdgeCount),
		Stdevs: make([]float64, BinEdgeCount),
	}
	for i := range members {
		switch len(members[i]) {
		case 0:
			out.Means[i] = math.NaN()
			out.Stdevs[i] = math.NaN()
		case 1:
			out.Means[i] = members[i][0]
			out.Stdevs[i] = uncerts[i][0]
		default:
			out.Means[i] = stat.Mean(members[i], nil)
			out.Stdevs[i] = stat.StdDev(members[i], nil)
		}
	}

	return out
}

// digitize returns the number of edges at or below p, so p lands in
// [edges[i−1], edges[i]).
func digitize(p float64, edges []float64) int {
	idx := 0
	for _, e := range edges {
		if p >= e {
			idx++
		} else {
			break
		}
	}
	if idx >= len(edges) {
		idx = len(edges) - 1
	}

	return idx
}
