package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// floatDeriver derives a float column by applying fn to another column.
type floatDeriver struct {
	col *Column
	fn  func(Value) Value
}

func (d *floatDeriver) Kind() Kind {
	return FloatKind
}

func (d *floatDeriver) At(row int) (Value, error) {
	return d.fn(d.col.Value(row)), nil
}

func TestMutateAppendsColumn(t *testing.T) {
	tbl := mustTable(t, NewFloatColumn("income", []float64{1000, 2000}))
	//
	col, err := tbl.Column("income")
	require.NoError(t, err)
	//
	derived, err := Mutate(tbl, "monthly", &floatDeriver{col, func(v Value) Value {
		if v.Missing {
			return MissingValue(FloatKind)
		}
		//
		return FloatValue(v.Float / 12)
	}})
	require.NoError(t, err)
	//
	assert.Equal(t, []string{"income", "monthly"}, derived.Names())
	//
	monthly, err := derived.Column("monthly")
	require.NoError(t, err)
	assert.InDelta(t, 1000.0/12, monthly.Value(0).Float, 1e-9)
}

func TestMutateReplacesExistingColumn(t *testing.T) {
	tbl := mustTable(t,
		NewFloatColumn("income", []float64{1000, 2000}),
		NewStringColumn("name", []string{"ada", "bob"}),
	)
	//
	col, err := tbl.Column("income")
	require.NoError(t, err)
	//
	doubled, err := Mutate(tbl, "income", &floatDeriver{col, func(v Value) Value {
		return FloatValue(v.Float * 2)
	}})
	require.NoError(t, err)
	// Same shape, same column order
	assert.Equal(t, tbl.Names(), doubled.Names())
	//
	income, err := doubled.Column("income")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, income.Value(0).Float)
}

func TestMutateDivisionByZeroIsNonFinite(t *testing.T) {
	tbl := mustTable(t, NewFloatColumn("v", []float64{1, 0}))
	//
	col, err := tbl.Column("v")
	require.NoError(t, err)
	//
	derived, err := Mutate(tbl, "inv", &floatDeriver{col, func(v Value) Value {
		return FloatValue(1 / v.Float)
	}})
	require.NoError(t, err)
	//
	inv, err := derived.Column("inv")
	require.NoError(t, err)
	// Division by zero propagates a non-finite value, never a failure.
	assert.True(t, math.IsInf(inv.Value(1).Float, 1))
}

func TestFillRandomWithReplacement(t *testing.T) {
	tbl := mustTable(t, NewIntColumn("id", []int64{1, 2, 3, 4, 5, 6, 7, 8}))
	// A domain of two values cannot cover eight rows without repeats, but
	// with replacement any row count is satisfiable.
	filled, err := FillRandom(tbl, "coin", 0, 1, true, 42)
	require.NoError(t, err)
	//
	coin, err := filled.Column("coin")
	require.NoError(t, err)
	//
	for row := 0; row < filled.Height(); row++ {
		v := coin.Value(row).Int
		assert.True(t, v == 0 || v == 1)
	}
}

func TestFillRandomWithoutReplacementIsDistinct(t *testing.T) {
	tbl := mustTable(t, NewIntColumn("id", []int64{1, 2, 3, 4, 5}))
	//
	filled, err := FillRandom(tbl, "ticket", 10, 14, false, 7)
	require.NoError(t, err)
	//
	ticket, err := filled.Column("ticket")
	require.NoError(t, err)
	// Five rows over a domain of five distinct values: a permutation.
	seen := make(map[int64]bool)
	//
	for row := 0; row < filled.Height(); row++ {
		v := ticket.Value(row).Int
		assert.GreaterOrEqual(t, v, int64(10))
		assert.LessOrEqual(t, v, int64(14))
		assert.False(t, seen[v], "value %d drawn twice", v)
		seen[v] = true
	}
}

func TestFillRandomInsufficientDomain(t *testing.T) {
	tbl := mustTable(t, NewIntColumn("id", []int64{1, 2, 3}))
	//
	_, err := FillRandom(tbl, "ticket", 1, 2, false, 7)
	//
	var insufficient *InsufficientDomainError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 2, insufficient.Domain)
}

func TestFillRandomDeterministicBySeed(t *testing.T) {
	tbl := mustTable(t, NewIntColumn("id", []int64{1, 2, 3, 4}))
	//
	first, err := FillRandom(tbl, "r", 0, 100, true, 9)
	require.NoError(t, err)
	//
	second, err := FillRandom(tbl, "r", 0, 100, true, 9)
	require.NoError(t, err)
	//
	for row := 0; row < tbl.Height(); row++ {
		a, _ := first.Column("r")
		b, _ := second.Column("r")
		assert.Equal(t, a.Value(row).Int, b.Value(row).Int)
	}
}
