package table

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ReduceOp identifies a summary statistic computed over one column of each
// group.
type ReduceOp uint8

const (
	// ReduceMean is the arithmetic mean over non-missing values, missing
	// below one value.
	ReduceMean ReduceOp = iota
	// ReduceStdDev is the sample standard deviation over non-missing
	// values, missing below two values.
	ReduceStdDev
)

func (op ReduceOp) String() string {
	switch op {
	case ReduceMean:
		return "mean"
	case ReduceStdDev:
		return "stddev"
	}
	//
	return fmt.Sprintf("op(%d)", op)
}

// ParseReduceOp reverses ReduceOp.String.
func ParseReduceOp(s string) (ReduceOp, error) {
	switch s {
	case "mean":
		return ReduceMean, nil
	case "stddev":
		return ReduceStdDev, nil
	}
	//
	return 0, fmt.Errorf("unknown reducer %q", s)
}

// Aggregation names one column and the statistic to reduce it with.
type Aggregation struct {
	Column string
	Op     ReduceOp
}

// GroupBy partitions the table's rows by the distinct tuples of the key
// columns and reduces each group to one output row.  At least one key
// column is required.  A missing key value participates in group identity
// like any other value.  Groups appear in first-encountered order,
// maintained by an insertion-ordered index.
//
// Each aggregation contributes one float column named "column_op".  With
// skipMissing set (the conventional default), missing values are excluded
// from the statistic; otherwise any missing value in the group poisons that
// statistic to missing.
func GroupBy(t *Table, keys []string, aggs []Aggregation, skipMissing bool) (*Table, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("grouping requires at least one key column")
	}
	//
	kcols, err := columnsOf(t, keys)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	acols := make([]*Column, len(aggs))
	//
	for i, agg := range aggs {
		col, err := t.Column(agg.Column)
		// Error check
		if err != nil {
			return nil, err
		}
		//
		if !col.Kind().IsNumeric() {
			return nil, &UnsupportedTypeError{Column: agg.Column, Kind: col.Kind(), Target: "aggregation"}
		}
		//
		acols[i] = col
	}
	// Partition rows, preserving first-seen group order.
	var (
		order  []string
		groups = make(map[string][]int, t.Height())
	)
	//
	for row := 0; row < t.Height(); row++ {
		key := groupKeyOf(kcols, row)
		//
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		//
		groups[key] = append(groups[key], row)
	}
	// Key columns carry the first row of each group.
	first := make([]int, len(order))
	for i, key := range order {
		first[i] = groups[key][0]
	}
	//
	var cols []*Column
	for _, kcol := range kcols {
		cols = append(cols, kcol.take(first))
	}
	// One float column per aggregation.
	for i, agg := range aggs {
		out := newColumn(agg.Column+"_"+agg.Op.String(), FloatKind, nil)
		//
		for _, key := range order {
			if v, ok := reduce(acols[i], groups[key], agg.Op, skipMissing); ok {
				_ = out.Append(FloatValue(v))
			} else {
				out.appendMissing()
			}
		}
		//
		cols = append(cols, out)
	}
	//
	return New(cols...)
}

// columnsOf resolves a list of column names, failing on the first unknown.
func columnsOf(t *Table, names []string) ([]*Column, error) {
	cols := make([]*Column, len(names))
	//
	for i, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		//
		cols[i] = col
	}
	//
	return cols, nil
}

// groupKeyOf encodes the key tuple of a row for partitioning.  Unlike join
// keys, missing values form groups of their own and therefore encode to a
// distinct token.
func groupKeyOf(cols []*Column, row int) string {
	parts := make([]string, len(cols))
	//
	for i, col := range cols {
		v := col.Value(row)
		//
		switch {
		case v.Missing:
			parts[i] = "m:"
		case v.Kind == IntKind || v.Kind == FloatKind:
			f, _ := v.AsFloat()
			parts[i] = "n:" + formatFloat(f)
		default:
			parts[i] = "s:" + strconv.Quote(v.Text())
		}
	}
	//
	return strings.Join(parts, "\x1f")
}

// reduce computes one statistic over the given rows of a column.  The
// second result is false when the statistic is undefined, which the caller
// records as missing.
func reduce(col *Column, rows []int, op ReduceOp, skipMissing bool) (float64, bool) {
	values := make([]float64, 0, len(rows))
	//
	for _, row := range rows {
		if f, ok := col.Float64(row); ok {
			values = append(values, f)
		} else if !skipMissing {
			// A single missing value poisons the statistic.
			return 0, false
		}
	}
	//
	switch op {
	case ReduceMean:
		if len(values) < 1 {
			return 0, false
		}
		//
		return stat.Mean(values, nil), true
	case ReduceStdDev:
		if len(values) < 2 {
			return 0, false
		}
		//
		return stat.StdDev(values, nil), true
	}
	//
	return 0, false
}
