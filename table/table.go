package table

import (
	"fmt"
)

// Table is an ordered set of equally sized columns with a row index.
type Table struct {
	index   []int
	columns []*Column
	byName  map[string]int
}

// New creates a table from columns. All columns must have the same length and
// distinct names. The row index defaults to 0..n-1.
func New(cols ...*Column) (*Table, error) {
	t := &Table{byName: make(map[string]int, len(cols))}
	rows := -1
	for _, c := range cols {
		if c == nil {
			continue
		}
		if _, dup := t.byName[c.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.name)
		}
		if rows < 0 {
			rows = c.Len()
		} else if c.Len() != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", ErrLengthMismatch, c.name, c.Len(), rows)
		}
		t.byName[c.name] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	if rows < 0 {
		rows = 0
	}
	t.index = defaultIndex(rows)
	return t, nil
}

func defaultIndex(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// SetIndex replaces the row index labels.
func (t *Table) SetIndex(index []int) error {
	if len(index) != t.Len() {
		return fmt.Errorf("%w: index has %d labels, table has %d rows", ErrLengthMismatch, len(index), t.Len())
	}
	t.index = append([]int(nil), index...)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.index)
}

// Index returns the row index labels. The returned slice must not be modified.
func (t *Table) Index() []int {
	return t.index
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Empty reports whether the table has no rows or no columns.
func (t *Table) Empty() bool {
	return t == nil || t.Len() == 0 || len(t.columns) == 0
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// NumericColumns returns the names of numeric, non-reserved columns in table order.
func (t *Table) NumericColumns() []string {
	var names []string
	for _, c := range t.columns {
		if c.kind.IsNumeric() && !IsReserved(c.name) {
			names = append(names, c.name)
		}
	}
	return names
}

// MissingColumns returns the names from want that are absent from the table, in want order.
func (t *Table) MissingColumns(want []string) []string {
	var missing []string
	for _, name := range want {
		if _, ok := t.byName[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Select returns a new table holding exactly the named columns in the given order.
// The row index is preserved.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{
		index:   t.index,
		columns: make([]*Column, 0, len(names)),
		byName:  make(map[string]int, len(names)),
	}
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
		if _, dup := out.byName[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		out.byName[name] = len(out.columns)
		out.columns = append(out.columns, c)
	}
	return out, nil
}

// Slice returns rows [start, end) as a new table, keeping their index labels.
func (t *Table) Slice(start, end int) (*Table, error) {
	if start < 0 || end > t.Len() || start > end {
		return nil, fmt.Errorf("table: slice [%d:%d] out of range for %d rows", start, end, t.Len())
	}
	rows := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, i)
	}
	out := &Table{
		index:   append([]int(nil), t.index[start:end]...),
		columns: make([]*Column, len(t.columns)),
		byName:  make(map[string]int, len(t.columns)),
	}
	for i, c := range t.columns {
		out.columns[i] = c.clone(rows)
		out.byName[c.name] = i
	}
	return out, nil
}

// ValidateReserved checks the reserved record columns a caller contract
// requires: "input" always, "key" when requireKey is set.
func (t *Table) ValidateReserved(requireKey bool) error {
	if _, ok := t.Column(InputColumn); !ok {
		return fmt.Errorf("%w: %q", ErrMissingReserved, InputColumn)
	}
	if requireKey {
		if _, ok := t.Column(KeyColumn); !ok {
			return fmt.Errorf("%w: %q", ErrMissingReserved, KeyColumn)
		}
	}
	return nil
}
