package scale

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/featquant/internal/stats"
	"github.com/hupe1980/featquant/persistence"
)

// LogStandard applies log1p followed by standardization.
// Inputs below zero are clamped to zero before log1p.
type LogStandard struct {
	Mean float64
	Std  float64
}

// FitLogStandard fits the mean and population standard deviation of log1p(x).
func FitLogStandard(x []float64) (*LogStandard, error) {
	if len(x) == 0 {
		return nil, ErrEmptyColumn
	}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = log1pClamped(v)
	}
	if isConstant(y) {
		return nil, ErrZeroVariance
	}
	mean, std := stat.PopMeanStdDev(y, nil)
	if !(std > 0) {
		return nil, ErrZeroVariance
	}
	return &LogStandard{Mean: mean, Std: std}, nil
}

func (*LogStandard) Kind() Kind { return KindLogStandard }

func (s *LogStandard) Apply(x float64) float64 {
	return (log1pClamped(x) - s.Mean) / s.Std
}

func (s *LogStandard) encode(w *persistence.Writer) {
	w.WriteFloat64(s.Mean)
	w.WriteFloat64(s.Std)
}

func log1pClamped(x float64) float64 {
	return math.Log1p(math.Max(x, 0))
}

// Robust centers on the median and divides by the interquartile range.
type Robust struct {
	Center float64
	Scale  float64
}

// FitRobust fits the median and the 25th-75th percentile range. A zero range
// scales by 1.
func FitRobust(x []float64) (*Robust, error) {
	if len(x) == 0 {
		return nil, ErrEmptyColumn
	}
	if isConstant(x) {
		return nil, ErrZeroVariance
	}
	sorted := stats.Sorted(x)
	iqr := stats.LinearQuantile(sorted, 0.75) - stats.LinearQuantile(sorted, 0.25)
	if iqr == 0 {
		iqr = 1
	}
	return &Robust{
		Center: stats.LinearQuantile(sorted, 0.5),
		Scale:  iqr,
	}, nil
}

func (*Robust) Kind() Kind { return KindRobust }

func (r *Robust) Apply(x float64) float64 {
	return (x - r.Center) / r.Scale
}

func (r *Robust) encode(w *persistence.Writer) {
	w.WriteFloat64(r.Center)
	w.WriteFloat64(r.Scale)
}
