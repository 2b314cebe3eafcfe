package scale

import (
	"math"

	"github.com/hupe1980/featquant/persistence"
	"github.com/hupe1980/featquant/table"
)

// DefaultBinaryThreshold splits binary values in extremes mode.
const DefaultBinaryThreshold = 0.5

// Constant codes every value as 0.
type Constant struct{}

func (Constant) Kind() Kind                 { return KindConstant }
func (Constant) Apply(float64) float64      { return 0 }
func (Constant) encode(*persistence.Writer) {}

// Passthrough leaves values unchanged.
type Passthrough struct{}

func (Passthrough) Kind() Kind                 { return KindPassthrough }
func (Passthrough) Apply(x float64) float64    { return x }
func (Passthrough) encode(*persistence.Writer) {}

// BinaryThreshold maps values at or above Threshold to +MaxCode and the rest to -MaxCode.
type BinaryThreshold struct {
	Threshold float64
}

func (BinaryThreshold) Kind() Kind { return KindBinaryThreshold }

func (b BinaryThreshold) Apply(x float64) float64 {
	if x >= b.Threshold {
		return table.MaxCode
	}
	return -table.MaxCode
}

func (b BinaryThreshold) encode(w *persistence.Writer) { w.WriteFloat64(b.Threshold) }

// CodeMap assigns evenly spaced codes to the sorted distinct training values.
type CodeMap struct {
	Values []float64 // sorted, distinct
	Codes  []float64 // same length as Values, strictly increasing
}

// FitCodeMap builds an order-preserving code map. k distinct values receive
// round(linspace(-MaxCode, MaxCode, k)); a single value maps to 0.
func FitCodeMap(x []float64) (*CodeMap, error) {
	if len(x) == 0 {
		return nil, ErrEmptyColumn
	}
	values := distinctSorted(x)
	k := len(values)
	codes := make([]float64, k)
	if k > 1 {
		step := 2 * float64(table.MaxCode) / float64(k-1)
		for i := range codes {
			codes[i] = math.Round(-table.MaxCode + float64(i)*step)
		}
	}
	return &CodeMap{Values: values, Codes: codes}, nil
}

func (*CodeMap) Kind() Kind { return KindCodeMap }

// Apply returns the code of x, or of the nearest trained value when x was not
// seen during fit. Ties between two neighbours go to the lower one.
func (m *CodeMap) Apply(x float64) float64 {
	n := len(m.Values)
	i := searchLeft(m.Values, x)
	switch {
	case i < n && m.Values[i] == x:
		return m.Codes[i]
	case i == 0:
		return m.Codes[0]
	case i == n:
		return m.Codes[n-1]
	}
	if x-m.Values[i-1] <= m.Values[i]-x {
		return m.Codes[i-1]
	}
	return m.Codes[i]
}

func (m *CodeMap) encode(w *persistence.Writer) {
	w.WriteFloat64Slice(m.Values)
	w.WriteFloat64Slice(m.Codes)
}
