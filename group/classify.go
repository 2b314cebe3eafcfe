package group

import (
	"math"

	"github.com/hupe1980/featquant/table"
	"gonum.org/v1/gonum/floats"
)

// DefaultSmallCardinalityLimit is the maximum number of distinct values of a
// SmallCardinalityInteger column.
const DefaultSmallCardinalityLimit = 10

// Options configures classification.
type Options struct {
	// SmallCardinalityLimit is the maximum number of distinct non-missing
	// values for the SmallCardinalityInteger group.
	SmallCardinalityLimit int
}

// DefaultOptions are the default classification options.
var DefaultOptions = Options{
	SmallCardinalityLimit: DefaultSmallCardinalityLimit,
}

// Classification is the result of classifying a table.
type Classification struct {
	// Columns lists the classified feature columns in table order.
	Columns []string
	// Groups maps each column to its group.
	Groups map[string]Group
}

// Members returns the columns assigned to g, in table order.
func (c Classification) Members(g Group) []string {
	var out []string
	for _, name := range c.Columns {
		if c.Groups[name] == g {
			out = append(out, name)
		}
	}
	return out
}

// Classify assigns every numeric, non-reserved column of t to exactly one group.
//
// It is a pure function of the table: classifying the same table twice yields
// identical assignments.
func Classify(t *table.Table, optFns ...func(o *Options)) (Classification, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if t.Empty() {
		return Classification{}, ErrEmptyTable
	}
	names := t.NumericColumns()
	if len(names) == 0 {
		return Classification{}, ErrNoNumericColumns
	}

	c := Classification{
		Columns: names,
		Groups:  make(map[string]Group, len(names)),
	}
	for _, name := range names {
		col, _ := t.Column(name)
		c.Groups[name] = Column(col.Float64s(), opts.SmallCardinalityLimit)
	}
	return c, nil
}

// Column classifies a single column of values. NaN and infinite values are missing.
func Column(values []float64, smallCardinalityLimit int) Group {
	present := make([]float64, 0, len(values))
	hasMissing := false
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			hasMissing = true
			continue
		}
		present = append(present, v)
	}

	distinct := make(map[float64]struct{}, min(len(present), 64))
	binary := true
	integral := true
	for _, v := range present {
		distinct[v] = struct{}{}
		if v != 0 && v != 1 {
			binary = false
		}
		if v != math.Trunc(v) {
			integral = false
		}
	}

	nunique := len(distinct)
	if hasMissing {
		nunique++
	}
	if nunique <= 1 {
		return Constant
	}
	if binary {
		return Binary
	}

	lo, hi := floats.Min(present), floats.Max(present)
	switch {
	case integral && len(distinct) <= smallCardinalityLimit:
		return SmallCardinalityInteger
	case integral && lo >= 0:
		return Count
	case lo >= 0 && hi <= 1:
		return Bounded
	default:
		return Continuous
	}
}
