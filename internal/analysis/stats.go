package analysis

import (
	"math"
	"sort"
)

// acc accumulates one metric for one group. NaN readings are skipped.
type acc struct {
	n    int
	mean float64
	m2   float64
	vals []float64
}

func (a *acc) add(x float64) {
	if math.IsNaN(x) {
		return
	}
	// Welford update
	a.n++
	delta := x - a.mean
	a.mean += delta / float64(a.n)
	a.m2 += delta * (x - a.mean)
	a.vals = append(a.vals, x)
}

func (a *acc) Mean() float64 {
	if a.n == 0 {
		return math.NaN()
	}
	return a.mean
}

// Std is the sample standard deviation; undefined below two readings.
func (a *acc) Std() float64 {
	if a.n < 2 {
		return math.NaN()
	}
	return math.Sqrt(a.m2 / float64(a.n-1))
}

func (a *acc) Median() float64 {
	if a.n == 0 {
		return math.NaN()
	}
	return quantile(a.sorted(), 0.5)
}

func (a *acc) sorted() []float64 {
	cp := make([]float64, len(a.vals))
	copy(cp, a.vals)
	sort.Float64s(cp)
	return cp
}

// quantile uses linear interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// round2 rounds half to even at two decimals. NaN passes through.
func round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.RoundToEven(x*100) / 100
}
