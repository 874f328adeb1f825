package table

// Predicate decides, per row, whether the row is retained.  Predicates over
// missing cells must answer false rather than fail, matching statistical
// missing-value propagation.
type Predicate interface {
	At(row int) (bool, error)
}

// PredicateFunc adapts an ordinary function to the Predicate interface.
type PredicateFunc func(row int) (bool, error)

// At applies the underlying function.
func (f PredicateFunc) At(row int) (bool, error) {
	return f(row)
}

// Filter produces a new table containing exactly the rows for which the
// predicate answers true, in their original order.  Filtering twice with
// the same predicate is idempotent.
func Filter(t *Table, pred Predicate) (*Table, error) {
	var rows []int
	//
	for row := 0; row < t.Height(); row++ {
		keep, err := pred.At(row)
		// Error check
		if err != nil {
			return nil, err
		}
		//
		if keep {
			rows = append(rows, row)
		}
	}
	//
	return t.take(rows), nil
}
