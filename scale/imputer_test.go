package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImputer(t *testing.T) {
	t.Run("MedianOfPresentValues", func(t *testing.T) {
		values := []float64{1, math.NaN(), 3, math.Inf(1), 10}
		im := FitImputer(values)
		assert.Equal(t, 3.0, im.Median)
		assert.Equal(t, []float64{1, 3, 3, 3, 10}, im.Transform(values))
	})

	t.Run("EvenCount", func(t *testing.T) {
		assert.Equal(t, 2.5, FitImputer([]float64{4, 1, 3, 2}).Median)
	})

	t.Run("AllMissing", func(t *testing.T) {
		im := FitImputer([]float64{math.NaN(), math.NaN()})
		assert.Equal(t, 0.0, im.Median)
		assert.Equal(t, []float64{0, 0}, im.Transform([]float64{math.NaN(), math.Inf(-1)}))
	})

	t.Run("DoesNotModifyInput", func(t *testing.T) {
		values := []float64{math.NaN(), 1}
		_ = Imputer{Median: 5}.Transform(values)
		assert.True(t, math.IsNaN(values[0]))
	})
}

func TestMissing(t *testing.T) {
	bm := Missing([]float64{0, math.NaN(), 2, math.Inf(-1), math.Inf(1)})
	assert.Equal(t, []uint32{1, 3, 4}, bm.ToArray())
}
