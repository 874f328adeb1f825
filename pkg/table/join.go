package table

import (
	"fmt"
	"strconv"
	"strings"
)

// JoinMode selects which unmatched rows a join retains.
type JoinMode uint8

const (
	// LeftJoin retains unmatched left rows, padding right columns with
	// missing.
	LeftJoin JoinMode = iota
	// RightJoin retains unmatched right rows, padding left columns with
	// missing.
	RightJoin
	// InnerJoin retains matched rows only.
	InnerJoin
	// FullJoin retains unmatched rows from both sides.
	FullJoin
)

func (m JoinMode) String() string {
	switch m {
	case LeftJoin:
		return "left"
	case RightJoin:
		return "right"
	case InnerJoin:
		return "inner"
	case FullJoin:
		return "full"
	}
	//
	return fmt.Sprintf("mode(%d)", m)
}

// ParseJoinMode reverses JoinMode.String.
func ParseJoinMode(s string) (JoinMode, error) {
	switch s {
	case "left":
		return LeftJoin, nil
	case "right":
		return RightJoin, nil
	case "inner":
		return InnerJoin, nil
	case "full":
		return FullJoin, nil
	}
	//
	return 0, fmt.Errorf("unknown join mode %q", s)
}

// CommonColumns returns the column names shared by both tables, in the left
// table's order.  This is the deliberate, inspectable alternative to
// silently inferring join keys.
func CommonColumns(left, right *Table) []string {
	var common []string
	//
	for _, name := range left.Names() {
		if right.Has(name) {
			common = append(common, name)
		}
	}
	//
	return common
}

// Join combines two tables on the given key columns.  When keys is empty,
// the common column names are used, and the join fails if there are none.
//
// A hash index over the right table is probed once per left row, in the
// left table's row order.  Multiple right matches fan out into multiple
// output rows.  Right-side key columns are dropped from the output, being
// redundant with the left-side values; for right and full joins, unmatched
// right rows are appended at the end with their key values carried into the
// key columns and all other left columns missing.
//
// Missing key values never match each other, following standard relational
// semantics.
func Join(left, right *Table, keys []string, mode JoinMode) (*Table, error) {
	if len(keys) == 0 {
		keys = CommonColumns(left, right)
	}
	//
	if len(keys) == 0 {
		return nil, &NoCommonKeyError{}
	}
	//
	lkeys, err := keyColumns(left, keys, "left")
	// Error check
	if err != nil {
		return nil, err
	}
	//
	rkeys, err := keyColumns(right, keys, "right")
	// Error check
	if err != nil {
		return nil, err
	}
	// Index right rows by key tuple.  Rows with a missing key value are
	// unmatchable and excluded from the index.
	index := make(map[string][]int, right.Height())
	//
	for row := 0; row < right.Height(); row++ {
		if key, ok := keyOf(rkeys, row); ok {
			index[key] = append(index[key], row)
		}
	}
	// Probe per left row, collecting (left row, right row) pairs with -1
	// standing for the absent side.
	var (
		lrows, rrows []int
		matched      = make([]bool, right.Height())
	)
	//
	for row := 0; row < left.Height(); row++ {
		var matches []int
		//
		if key, ok := keyOf(lkeys, row); ok {
			matches = index[key]
		}
		//
		switch {
		case len(matches) > 0:
			for _, rrow := range matches {
				lrows = append(lrows, row)
				rrows = append(rrows, rrow)
				matched[rrow] = true
			}
		case mode == LeftJoin || mode == FullJoin:
			lrows = append(lrows, row)
			rrows = append(rrows, -1)
		}
	}
	//
	if mode == RightJoin || mode == FullJoin {
		for rrow := 0; rrow < right.Height(); rrow++ {
			if !matched[rrow] {
				lrows = append(lrows, -1)
				rrows = append(rrows, rrow)
			}
		}
	}
	//
	return assembleJoin(left, right, keys, lrows, rrows)
}

// keyColumns resolves the key names against one side of the join.
func keyColumns(t *Table, keys []string, side string) ([]*Column, error) {
	cols := make([]*Column, len(keys))
	//
	for i, key := range keys {
		col, err := t.Column(key)
		if err != nil {
			return nil, &MissingKeyColumnError{Name: key, Side: side}
		}
		//
		cols[i] = col
	}
	//
	return cols, nil
}

// keyOf encodes the key tuple of a row for hash lookup.  The second result
// is false when any key value is missing, making the row unmatchable.
// Numeric values are widened before encoding so an int key matches an equal
// float key, and categorical values compare by their label text.
func keyOf(cols []*Column, row int) (string, bool) {
	var parts []string
	//
	for _, col := range cols {
		v := col.Value(row)
		//
		if v.Missing {
			return "", false
		}
		//
		if f, ok := v.AsFloat(); ok {
			parts = append(parts, "n:"+formatFloat(f))
		} else {
			parts = append(parts, "s:"+strconv.Quote(v.Text()))
		}
	}
	//
	return strings.Join(parts, "\x1f"), true
}

// assembleJoin builds the output table from the collected row pairs.  Key
// columns take the left value where present, falling back to the right
// value for appended unmatched right rows.
func assembleJoin(left, right *Table, keys []string, lrows, rrows []int) (*Table, error) {
	var (
		keySet = make(map[string]bool, len(keys))
		cols   []*Column
	)
	//
	for _, key := range keys {
		keySet[key] = true
	}
	//
	for i := 0; i < left.Width(); i++ {
		lcol := left.ColumnAt(i)
		//
		if !keySet[lcol.Name()] {
			cols = append(cols, lcol.take(lrows))
			continue
		}
		// Key column: coalesce left and right values.
		rcol, _ := right.Column(lcol.Name())
		col := newColumn(lcol.Name(), lcol.Kind(), mergeLabels(lcol.Labels(), rcol.Labels()))
		//
		for j := range lrows {
			var v Value
			//
			if lrows[j] >= 0 {
				v = lcol.Value(lrows[j])
			} else {
				v = coerceTo(rcol.Value(rrows[j]), lcol.Kind())
			}
			//
			if err := col.Append(v); err != nil {
				return nil, err
			}
		}
		//
		cols = append(cols, col)
	}
	// Right columns, keys dropped.
	for i := 0; i < right.Width(); i++ {
		rcol := right.ColumnAt(i)
		//
		if !keySet[rcol.Name()] {
			cols = append(cols, rcol.take(rrows))
		}
	}
	//
	return New(cols...)
}

// mergeLabels unions two value-label mappings, preferring the left text on
// conflicting codes.
func mergeLabels(left, right Labels) Labels {
	if left == nil && right == nil {
		return nil
	}
	//
	merged := right.Clone()
	if merged == nil {
		merged = make(Labels)
	}
	//
	for code, text := range left {
		merged[code] = text
	}
	//
	return merged
}

// coerceTo converts a value to the given kind where a faithful conversion
// exists, and degrades to missing where it does not.
func coerceTo(v Value, kind Kind) Value {
	if v.Missing {
		return MissingValue(kind)
	} else if v.Kind == kind {
		return v
	}
	//
	switch kind {
	case FloatKind:
		if f, ok := v.AsFloat(); ok {
			return FloatValue(f)
		}
	case IntKind:
		if f, ok := v.AsFloat(); ok && f == float64(int64(f)) {
			return IntValue(int64(f))
		}
	case StringKind:
		return StringValue(v.Text())
	}
	//
	return MissingValue(kind)
}
