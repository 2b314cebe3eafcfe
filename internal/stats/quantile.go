package stats

import (
	"math"
	"sort"
)

// Sorted returns a sorted copy of x with NaN values removed.
func Sorted(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// LinearQuantile returns the p-quantile (p in [0, 1]) of sorted using linear
// interpolation between closest ranks (numpy method "linear").
// sorted must be non-empty and ascending.
func LinearQuantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Median returns the median of sorted (mean of the two middle values for even lengths).
func Median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// AveragedInvertedCDF returns the k/m quantile of sorted using the averaged
// inverted empirical CDF (numpy method "averaged_inverted_cdf").
//
// The level is passed as the integer ratio k/m so that the discontinuity test
// is exact: the two neighbouring order statistics are averaged only when
// n*k/m is an integer.
func AveragedInvertedCDF(sorted []float64, k, m int) float64 {
	n := len(sorted)
	num := n * k
	j := num / m
	if num%m != 0 {
		return sorted[clampIndex(j, n)]
	}
	return (sorted[clampIndex(j-1, n)] + sorted[clampIndex(j, n)]) / 2
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// SearchRight returns the number of elements of sorted that are <= x.
func SearchRight(sorted []float64, x float64) int {
	return sort.Search(len(sorted), func(i int) bool { return sorted[i] > x })
}

// Interp evaluates the piecewise-linear interpolant through (xp, fp) at x
// (numpy interp semantics). xp must be non-decreasing; values outside the
// range take the boundary values.
func Interp(x float64, xp, fp []float64) float64 {
	n := len(xp)
	if x <= xp[0] {
		if x == xp[0] {
			// numpy returns fp of the last equal leading point for ties at the left edge
			return fp[SearchRight(xp, x)-1]
		}
		return fp[0]
	}
	if x >= xp[n-1] {
		return fp[n-1]
	}
	j := SearchRight(xp, x) - 1
	// xp[j] <= x < xp[j+1], so the interval has positive width.
	slope := (fp[j+1] - fp[j]) / (xp[j+1] - xp[j])
	return fp[j] + slope*(x-xp[j])
}
