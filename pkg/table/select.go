package table

// Selector identifies a set of columns within a table.  Selectors resolve
// against the table's current column order once per invocation, so range
// selections depend on where their endpoints sit at resolution time.
type Selector interface {
	resolve(t *Table) ([]string, error)
}

type nameSelector []string

func (s nameSelector) resolve(t *Table) ([]string, error) {
	for _, name := range s {
		if !t.Has(name) {
			return nil, &UnknownColumnError{Name: name}
		}
	}
	//
	return s, nil
}

type rangeSelector struct {
	from string
	to   string
}

func (s rangeSelector) resolve(t *Table) ([]string, error) {
	first, ok := t.Position(s.from)
	if !ok {
		return nil, &UnknownColumnError{Name: s.from}
	}
	//
	last, ok := t.Position(s.to)
	if !ok {
		return nil, &UnknownColumnError{Name: s.to}
	}
	//
	if first > last {
		return nil, &RangeOrderError{From: s.from, To: s.to}
	}
	//
	names := make([]string, 0, last-first+1)
	for i := first; i <= last; i++ {
		names = append(names, t.ColumnAt(i).Name())
	}
	//
	return names, nil
}

// RangeOrderError indicates a column range whose start is positioned after
// its end in the current column order.
type RangeOrderError struct {
	From string
	To   string
}

func (e *RangeOrderError) Error() string {
	return "column " + e.From + " is positioned after " + e.To
}

// Names selects columns by explicit name.
func Names(names ...string) Selector {
	return nameSelector(names)
}

// Range selects the contiguous run of columns from one name to another,
// inclusive, as positioned in the table at resolution time.
func Range(from, to string) Selector {
	return rangeSelector{from, to}
}

// Select produces a new table containing only the requested columns, in
// requested order.  Selecting every column in table order is the identity.
func Select(t *Table, selectors ...Selector) (*Table, error) {
	var names []string
	//
	for _, sel := range selectors {
		resolved, err := sel.resolve(t)
		if err != nil {
			return nil, err
		}
		//
		names = append(names, resolved...)
	}
	//
	cols := make([]*Column, len(names))
	//
	for i, name := range names {
		col, err := t.Column(name)
		// Cannot fail: resolution validated every name.
		if err != nil {
			return nil, err
		}
		//
		cols[i] = col.Clone()
	}
	// New reports duplicates across selectors.
	return New(cols...)
}

// Rename produces a new table identical to the input except that columns
// named in the mapping carry their new names.  Renaming is simultaneous, so
// swapping two names is well defined.
func Rename(t *Table, mapping map[string]string) (*Table, error) {
	for old := range mapping {
		if !t.Has(old) {
			return nil, &UnknownColumnError{Name: old}
		}
	}
	//
	cols := make([]*Column, t.Width())
	//
	for i := 0; i < t.Width(); i++ {
		col := t.ColumnAt(i)
		//
		if name, ok := mapping[col.Name()]; ok {
			cols[i] = col.renamed(name)
		} else {
			cols[i] = col.Clone()
		}
	}
	// New reports collisions between renamed and untouched columns.
	return New(cols...)
}
