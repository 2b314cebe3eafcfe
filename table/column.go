package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Kind is the storage kind of a column.
type Kind uint8

const (
	KindFloat Kind = iota
	KindInt
	KindString
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether the kind stores numbers.
func (k Kind) IsNumeric() bool {
	return k == KindFloat || k == KindInt
}

// Reserved column names.
const (
	KeyColumn   = "key"
	InputColumn = "input"
)

// IsReserved reports whether name is one of the reserved non-feature columns.
func IsReserved(name string) bool {
	return name == KeyColumn || name == InputColumn
}

// Column is a named, typed column.
type Column struct {
	name    string
	kind    Kind
	values  []float64 // numeric kinds, NaN marks a missing value
	strings []string  // KindString
}

// Float creates a float column. NaN values are missing.
func Float(name string, values []float64) *Column {
	v := make([]float64, len(values))
	copy(v, values)
	return &Column{name: name, kind: KindFloat, values: v}
}

// Int creates an integer column.
func Int(name string, values []int64) *Column {
	v := make([]float64, len(values))
	for i, x := range values {
		v[i] = float64(x)
	}
	return &Column{name: name, kind: KindInt, values: v}
}

// String creates a string column.
func String(name string, values []string) *Column {
	v := make([]string, len(values))
	copy(v, values)
	return &Column{name: name, kind: KindString, strings: v}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the storage kind.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows.
func (c *Column) Len() int {
	if c.kind == KindString {
		return len(c.strings)
	}
	return len(c.values)
}

// Float64s returns the numeric values of a numeric column.
// The returned slice must not be modified. It is nil for string columns.
func (c *Column) Float64s() []float64 {
	if c.kind == KindString {
		return nil
	}
	return c.values
}

// Strings returns the values of a string column, or nil for numeric columns.
func (c *Column) Strings() []string {
	if c.kind != KindString {
		return nil
	}
	return c.strings
}

// Coerce returns the column as float64 values. Numeric columns are copied;
// string values that do not parse as numbers become NaN.
func (c *Column) Coerce() []float64 {
	if c.kind != KindString {
		out := make([]float64, len(c.values))
		copy(out, c.values)
		return out
	}
	out := make([]float64, len(c.strings))
	for i, s := range c.strings {
		out[i] = parseNumber(s)
	}
	return out
}

// Missing returns the row positions holding missing values after numeric
// coercion. NaN and infinite values are missing.
func (c *Column) Missing() *roaring.Bitmap {
	bm := roaring.New()
	if c.kind == KindString {
		for i, s := range c.strings {
			if isMissing(parseNumber(s)) {
				bm.Add(uint32(i))
			}
		}
		return bm
	}
	for i, v := range c.values {
		if isMissing(v) {
			bm.Add(uint32(i))
		}
	}
	return bm
}

func isMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (c *Column) clone(rows []int) *Column {
	out := &Column{name: c.name, kind: c.kind}
	if c.kind == KindString {
		out.strings = make([]string, len(rows))
		for i, r := range rows {
			out.strings[i] = c.strings[r]
		}
		return out
	}
	out.values = make([]float64, len(rows))
	for i, r := range rows {
		out.values[i] = c.values[r]
	}
	return out
}
