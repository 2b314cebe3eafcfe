package table

import "slices"

// MaxCode is the largest code magnitude. Codes lie in [-MaxCode, MaxCode].
const MaxCode = 127

// Codes is an integer-coded table: one int8 column per frozen feature column,
// sharing the row index of the table it was produced from.
type Codes struct {
	index   []int
	columns []string
	data    [][]int8 // column-major
}

// NewCodes creates a Codes table. data holds one slice per column.
func NewCodes(index []int, columns []string, data [][]int8) *Codes {
	return &Codes{
		index:   append([]int(nil), index...),
		columns: append([]string(nil), columns...),
		data:    data,
	}
}

// Len returns the number of rows.
func (c *Codes) Len() int { return len(c.index) }

// Index returns the row index labels.
func (c *Codes) Index() []int { return c.index }

// Columns returns the column names.
func (c *Codes) Columns() []string { return c.columns }

// Column returns the codes of the named column.
func (c *Codes) Column(name string) ([]int8, bool) {
	i := slices.Index(c.columns, name)
	if i < 0 {
		return nil, false
	}
	return c.data[i], true
}

// At returns the code at row i of column j.
func (c *Codes) At(i, j int) int8 {
	return c.data[j][i]
}

// Row returns a copy of row i in column order.
func (c *Codes) Row(i int) []int8 {
	row := make([]int8, len(c.data))
	for j := range c.data {
		row[j] = c.data[j][i]
	}
	return row
}

// Equal reports whether two code tables have identical columns, index and values.
func (c *Codes) Equal(o *Codes) bool {
	if c == nil || o == nil {
		return c == o
	}
	if !slices.Equal(c.index, o.index) || !slices.Equal(c.columns, o.columns) {
		return false
	}
	for j := range c.data {
		if !slices.Equal(c.data[j], o.data[j]) {
			return false
		}
	}
	return true
}
