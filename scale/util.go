package scale

import (
	"slices"
	"sort"
)

func distinctSorted(x []float64) []float64 {
	out := slices.Clone(x)
	slices.Sort(out)
	return slices.Compact(out)
}

// searchLeft returns the first index i with sorted[i] >= x.
func searchLeft(sorted []float64, x float64) int {
	return sort.SearchFloat64s(sorted, x)
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
