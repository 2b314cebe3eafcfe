package scale

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hupe1980/featquant/internal/stats"
	"github.com/hupe1980/featquant/persistence"
)

const (
	// MaxQuantiles caps the number of reference quantiles.
	MaxQuantiles = 1000
	// MinQuantiles is the lower bound on the number of reference quantiles.
	MinQuantiles = 10

	boundsThreshold = 1e-7
)

// Output is clipped to the normal quantiles of the bounds threshold so that
// values at the training extremes stay finite.
var (
	normalClipMin = distuv.UnitNormal.Quantile(boundsThreshold - epsilon)
	normalClipMax = distuv.UnitNormal.Quantile(1 - (boundsThreshold - epsilon))
)

// epsilon is the spacing of float64 at 1.
const epsilon = 2.220446049250313e-16

// QuantileNormal maps values through the empirical CDF and then the inverse
// standard normal CDF.
type QuantileNormal struct {
	Quantiles  []float64 // non-decreasing
	References []float64 // evenly spaced on [0, 1]

	negQuantiles  []float64
	negReferences []float64
}

// NumQuantiles returns min(MaxQuantiles, max(MinQuantiles, n/3)), capped at n.
func NumQuantiles(n int) int {
	return min(MaxQuantiles, max(MinQuantiles, n/3), n)
}

// FitQuantileNormal estimates NumQuantiles(len(x)) reference quantiles of x.
func FitQuantileNormal(x []float64) (*QuantileNormal, error) {
	if len(x) == 0 {
		return nil, ErrEmptyColumn
	}
	if isConstant(x) {
		return nil, ErrZeroVariance
	}
	sorted := stats.Sorted(x)
	refs := linspace(0, 1, NumQuantiles(len(sorted)))

	q := make([]float64, len(refs))
	for i, p := range refs {
		q[i] = stats.LinearQuantile(sorted, p)
		if i > 0 && q[i] < q[i-1] {
			// Guard against rounding making the sequence non-monotonic.
			q[i] = q[i-1]
		}
	}
	return NewQuantileNormal(q, refs), nil
}

// NewQuantileNormal builds a transform from fitted quantiles and references.
func NewQuantileNormal(quantiles, references []float64) *QuantileNormal {
	n := len(quantiles)
	qn := &QuantileNormal{
		Quantiles:     quantiles,
		References:    references,
		negQuantiles:  make([]float64, n),
		negReferences: make([]float64, n),
	}
	for i := range n {
		qn.negQuantiles[i] = -quantiles[n-1-i]
		qn.negReferences[i] = -references[n-1-i]
	}
	return qn
}

func (*QuantileNormal) Kind() Kind { return KindQuantileNormal }

// Apply averages forward and backward interpolation so that repeated
// quantiles map to the middle of their reference range.
func (qn *QuantileNormal) Apply(x float64) float64 {
	n := len(qn.Quantiles)
	lo, hi := qn.Quantiles[0], qn.Quantiles[n-1]

	var p float64
	switch {
	case x-boundsThreshold < lo:
		p = 0
	case x+boundsThreshold > hi:
		p = 1
	default:
		p = 0.5 * (stats.Interp(x, qn.Quantiles, qn.References) -
			stats.Interp(-x, qn.negQuantiles, qn.negReferences))
	}

	if p <= 0 {
		return normalClipMin
	}
	if p >= 1 {
		return normalClipMax
	}
	z := distuv.UnitNormal.Quantile(p)
	return math.Min(math.Max(z, normalClipMin), normalClipMax)
}

func (qn *QuantileNormal) encode(w *persistence.Writer) {
	w.WriteFloat64Slice(qn.Quantiles)
	w.WriteFloat64Slice(qn.References)
}
