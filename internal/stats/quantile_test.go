package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSorted(t *testing.T) {
	got := Sorted([]float64{3, math.NaN(), 1, 2})
	assert.Equal(t, []float64{1, 2, 3}, got)
}

func TestLinearQuantile(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, LinearQuantile(x, 0), 1e-12)
	assert.InDelta(t, 4.0, LinearQuantile(x, 1), 1e-12)
	assert.InDelta(t, 2.5, LinearQuantile(x, 0.5), 1e-12)
	// numpy.percentile([1,2,3,4], 25) == 1.75
	assert.InDelta(t, 1.75, LinearQuantile(x, 0.25), 1e-12)
	assert.InDelta(t, 3.25, LinearQuantile(x, 0.75), 1e-12)
	assert.Equal(t, 7.0, LinearQuantile([]float64{7}, 0.3))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{1, 2, 3}))
	assert.Equal(t, 2.5, Median([]float64{1, 2, 3, 4}))
}

func TestAveragedInvertedCDF(t *testing.T) {
	x := []float64{10, 20, 30, 40}

	// p = 0 and p = 1 hit the extremes.
	assert.Equal(t, 10.0, AveragedInvertedCDF(x, 0, 4))
	assert.Equal(t, 40.0, AveragedInvertedCDF(x, 4, 4))

	// n*p integral -> average of neighbours.
	assert.Equal(t, 25.0, AveragedInvertedCDF(x, 2, 4))
	assert.Equal(t, 15.0, AveragedInvertedCDF(x, 1, 4))

	// n*p fractional -> the next order statistic.
	assert.Equal(t, 20.0, AveragedInvertedCDF(x, 1, 3))
	assert.Equal(t, 30.0, AveragedInvertedCDF(x, 2, 3))
}

func TestSearchRight(t *testing.T) {
	x := []float64{0, 0, 1, 1, 2}
	assert.Equal(t, 0, SearchRight(x, -1))
	assert.Equal(t, 2, SearchRight(x, 0))
	assert.Equal(t, 4, SearchRight(x, 1.5))
	assert.Equal(t, 5, SearchRight(x, 9))
}

func TestInterp(t *testing.T) {
	xp := []float64{0, 1, 2}
	fp := []float64{0, 10, 40}

	assert.Equal(t, 0.0, Interp(-5, xp, fp))
	assert.Equal(t, 40.0, Interp(5, xp, fp))
	assert.InDelta(t, 5.0, Interp(0.5, xp, fp), 1e-12)
	assert.InDelta(t, 25.0, Interp(1.5, xp, fp), 1e-12)
	assert.Equal(t, 10.0, Interp(1, xp, fp))

	// Repeated knots resolve to the right-most matching point.
	xp = []float64{0, 0, 1}
	fp = []float64{0, 0.5, 1}
	assert.Equal(t, 0.5, Interp(0, xp, fp))
}
