package table

import (
	"fmt"
	"strconv"
)

// Column is a named, typed sequence of cells with a per-row missing mask.
// Storage is columnar: exactly one of the backing slices is active for a
// given kind (ints doubles as the code store for categorical columns).
type Column struct {
	name    string
	kind    Kind
	strs    []string
	ints    []int64
	floats  []float64
	missing []bool
	labels  Labels
}

// NewStringColumn constructs a string column from the given cells.
func NewStringColumn(name string, values []string) *Column {
	c := newColumn(name, StringKind, nil)
	c.strs = append(c.strs, values...)
	c.missing = make([]bool, len(values))
	//
	return c
}

// NewIntColumn constructs an integer column from the given cells.
func NewIntColumn(name string, values []int64) *Column {
	c := newColumn(name, IntKind, nil)
	c.ints = append(c.ints, values...)
	c.missing = make([]bool, len(values))
	//
	return c
}

// NewFloatColumn constructs a floating point column from the given cells.
func NewFloatColumn(name string, values []float64) *Column {
	c := newColumn(name, FloatKind, nil)
	c.floats = append(c.floats, values...)
	c.missing = make([]bool, len(values))
	//
	return c
}

// NewCategoricalColumn constructs a coded column whose codes resolve
// through the given value-label mapping.
func NewCategoricalColumn(name string, codes []int64, labels Labels) *Column {
	c := newColumn(name, CategoricalKind, labels.Clone())
	c.ints = append(c.ints, codes...)
	c.missing = make([]bool, len(codes))
	//
	return c
}

// newColumn constructs an empty column of the given kind.
func newColumn(name string, kind Kind, labels Labels) *Column {
	return &Column{name: name, kind: kind, labels: labels}
}

// Name returns the name of this column.
func (c *Column) Name() string {
	return c.name
}

// Kind returns the semantic type of this column.
func (c *Column) Kind() Kind {
	return c.kind
}

// Labels returns the value-label mapping of a categorical column, or nil.
func (c *Column) Labels() Labels {
	return c.labels
}

// Len returns the number of rows in this column.
func (c *Column) Len() int {
	return len(c.missing)
}

// IsMissing reports whether the cell at the given row holds the missing
// marker.
func (c *Column) IsMissing(row int) bool {
	return c.missing[row]
}

// SetMissing marks the cell at the given row as missing.
func (c *Column) SetMissing(row int) {
	c.missing[row] = true
}

// Value extracts the cell at a given row.  Categorical cells carry both
// their code and their resolved label text.
func (c *Column) Value(row int) Value {
	if c.missing[row] {
		return MissingValue(c.kind)
	}
	//
	switch c.kind {
	case StringKind:
		return Value{Kind: StringKind, Str: c.strs[row]}
	case IntKind:
		return Value{Kind: IntKind, Int: c.ints[row]}
	case FloatKind:
		return Value{Kind: FloatKind, Float: c.floats[row]}
	default:
		code := c.ints[row]
		return Value{Kind: CategoricalKind, Int: code, Str: c.labels[code]}
	}
}

// Float64 provides a numeric view of the cell at a given row, widening
// integers.  The second result is false for missing or non-numeric cells.
func (c *Column) Float64(row int) (float64, bool) {
	return c.Value(row).AsFloat()
}

// Append adds a cell to the end of this column.  The cell's kind must agree
// with the column's kind unless it is missing.
func (c *Column) Append(v Value) error {
	if v.Missing {
		c.appendMissing()
		return nil
	} else if v.Kind != c.kind {
		return fmt.Errorf("cannot append %s value to %s column %q", v.Kind, c.kind, c.name)
	}
	//
	switch c.kind {
	case StringKind:
		c.strs = append(c.strs, v.Str)
	case IntKind, CategoricalKind:
		c.ints = append(c.ints, v.Int)
	case FloatKind:
		c.floats = append(c.floats, v.Float)
	}
	//
	c.missing = append(c.missing, false)
	//
	return nil
}

// appendMissing adds the missing marker to the end of this column, keeping
// the backing store aligned with the mask.
func (c *Column) appendMissing() {
	switch c.kind {
	case StringKind:
		c.strs = append(c.strs, "")
	case IntKind, CategoricalKind:
		c.ints = append(c.ints, 0)
	case FloatKind:
		c.floats = append(c.floats, 0)
	}
	//
	c.missing = append(c.missing, true)
}

// Clone produces a copy of this column which shares no storage with the
// original.
func (c *Column) Clone() *Column {
	n := newColumn(c.name, c.kind, c.labels.Clone())
	n.strs = append(n.strs, c.strs...)
	n.ints = append(n.ints, c.ints...)
	n.floats = append(n.floats, c.floats...)
	n.missing = append(n.missing, c.missing...)
	//
	return n
}

// renamed produces a deep copy of this column under a new name.
func (c *Column) renamed(name string) *Column {
	n := c.Clone()
	n.name = name
	//
	return n
}

// take produces a new column containing the cells at the given rows, in the
// given order.  A negative row index yields the missing marker, which is how
// joins pad the unmatched side.
func (c *Column) take(rows []int) *Column {
	n := newColumn(c.name, c.kind, c.labels.Clone())
	//
	for _, row := range rows {
		if row < 0 {
			n.appendMissing()
		} else {
			// Append cannot fail here since kinds agree.
			_ = n.Append(c.Value(row))
		}
	}
	//
	return n
}

// formatFloat renders a float using the shortest representation which
// round-trips exactly.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
