package table

// Table is an ordered sequence of named, typed columns of equal length.
// Column names are unique within a table, and a string-keyed index resolves
// names to positions once per lookup.  Row order is significant: every
// operation either preserves it or documents how it changes.
type Table struct {
	cols  []*Column
	index map[string]int
}

// New constructs a table from the given columns, which must carry unique
// names and equal lengths.
func New(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	//
	for _, col := range cols {
		if err := t.addColumn(col); err != nil {
			return nil, err
		}
	}
	//
	return t, nil
}

// addColumn appends a column, enforcing the name-uniqueness and row-count
// invariants.
func (t *Table) addColumn(col *Column) error {
	if _, ok := t.index[col.name]; ok {
		return &DuplicateNameError{Name: col.name}
	} else if len(t.cols) > 0 && col.Len() != t.Height() {
		return &HeightMismatchError{Column: col.name, Got: col.Len(), Want: t.Height()}
	}
	//
	t.index[col.name] = len(t.cols)
	t.cols = append(t.cols, col)
	//
	return nil
}

// Height returns the number of rows in this table.
func (t *Table) Height() int {
	if len(t.cols) == 0 {
		return 0
	}
	//
	return t.cols[0].Len()
}

// Width returns the number of columns in this table.
func (t *Table) Width() int {
	return len(t.cols)
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, col := range t.cols {
		names[i] = col.name
	}
	//
	return names
}

// Has reports whether a column of the given name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Position returns the position of the named column in table order.
func (t *Table) Position(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Column resolves a column by name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &UnknownColumnError{Name: name}
	}
	//
	return t.cols[i], nil
}

// ColumnAt returns the column at a given position in table order.
func (t *Table) ColumnAt(i int) *Column {
	return t.cols[i]
}

// Clone produces a copy of this table which shares no storage with the
// original.
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.cols))
	for i, col := range t.cols {
		cols[i] = col.Clone()
	}
	// Invariants already hold, hence no error is possible.
	n, _ := New(cols...)
	//
	return n
}

// take produces a new table containing the rows at the given indices, in
// the given order, across all columns.
func (t *Table) take(rows []int) *Table {
	cols := make([]*Column, len(t.cols))
	for i, col := range t.cols {
		cols[i] = col.take(rows)
	}
	//
	n, _ := New(cols...)
	//
	return n
}
