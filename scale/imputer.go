package scale

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/featquant/internal/stats"
)

// Imputer replaces missing values with a median frozen at fit time.
type Imputer struct {
	Median float64
}

// IsMissing reports whether v is treated as missing: NaN or an infinity.
func IsMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Missing returns the positions of missing values.
func Missing(values []float64) *roaring.Bitmap {
	bm := roaring.New()
	for i, v := range values {
		if IsMissing(v) {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// FitImputer computes the median of the non-missing values.
// A column without any present value imputes to 0.
func FitImputer(values []float64) Imputer {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !IsMissing(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return Imputer{}
	}
	return Imputer{Median: stats.Median(stats.Sorted(present))}
}

// Transform returns a copy of values with missing entries replaced by the median.
func (im Imputer) Transform(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)

	it := Missing(values).Iterator()
	for it.HasNext() {
		out[it.Next()] = im.Median
	}
	return out
}
