package table

import (
	"math/rand"
)

// Deriver computes one cell per row for a derived column.  The kind of the
// derived column is known up front, so an all-missing derivation still
// produces a well-typed column.
type Deriver interface {
	Kind() Kind
	At(row int) (Value, error)
}

// Mutate produces a new table with a derived column appended, or replacing
// an existing column of the same name.  All other columns are untouched.
func Mutate(t *Table, name string, d Deriver) (*Table, error) {
	derived := newColumn(name, d.Kind(), nil)
	//
	for row := 0; row < t.Height(); row++ {
		v, err := d.At(row)
		// Error check
		if err != nil {
			return nil, err
		}
		//
		if err := derived.Append(v); err != nil {
			return nil, err
		}
	}
	//
	return withColumn(t, derived)
}

// FillRandom produces a new table with a column of uniform pseudo-random
// integers drawn from [lo, hi], appended or replacing an existing column of
// the same name.  With replacement, values may repeat across rows and any
// row count is satisfiable.  Without replacement, all drawn values are
// distinct and the draw fails once the requested row count exceeds the
// domain size.
func FillRandom(t *Table, name string, lo, hi int64, replacement bool, seed int64) (*Table, error) {
	if hi < lo {
		return nil, &InsufficientDomainError{Requested: t.Height(), Domain: 0}
	}
	//
	var (
		rng    = rand.New(rand.NewSource(seed))
		rows   = t.Height()
		domain = hi - lo + 1
		values = make([]int64, rows)
	)
	//
	if replacement {
		for i := range values {
			values[i] = lo + rng.Int63n(domain)
		}
	} else if int64(rows) > domain {
		return nil, &InsufficientDomainError{Requested: rows, Domain: int(domain)}
	} else {
		// Partial Fisher-Yates over a sparse view of the domain, so large
		// domains cost memory proportional to rows, not to the domain.
		swapped := make(map[int64]int64, rows)
		//
		for i := 0; i < rows; i++ {
			j := int64(i) + rng.Int63n(domain-int64(i))
			// Resolve any prior swaps at positions i and j.
			vi, vj := int64(i), j
			//
			if v, ok := swapped[vi]; ok {
				vi = v
			}
			//
			if v, ok := swapped[vj]; ok {
				vj = v
			}
			//
			values[i] = lo + vj
			swapped[j] = vi
		}
	}
	//
	col := NewIntColumn(name, values)
	//
	return withColumn(t, col)
}

// withColumn clones the table and appends the given column, replacing any
// existing column of the same name in place.
func withColumn(t *Table, col *Column) (*Table, error) {
	cols := make([]*Column, 0, t.Width()+1)
	replaced := false
	//
	for i := 0; i < t.Width(); i++ {
		ith := t.ColumnAt(i)
		//
		if ith.Name() == col.Name() {
			cols = append(cols, col)
			replaced = true
		} else {
			cols = append(cols, ith.Clone())
		}
	}
	//
	if !replaced {
		cols = append(cols, col)
	}
	//
	return New(cols...)
}
