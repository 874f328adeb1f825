package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByMean(t *testing.T) {
	tbl := mustTable(t,
		NewStringColumn("g", []string{"x", "x", "y"}),
		NewFloatColumn("v", []float64{1, 3, 5}),
	)
	//
	grouped, err := GroupBy(tbl, []string{"g"}, []Aggregation{{Column: "v", Op: ReduceMean}}, true)
	require.NoError(t, err)
	//
	require.Equal(t, 2, grouped.Height())
	assert.Equal(t, []string{"g", "v_mean"}, grouped.Names())
	// First-seen group order
	g, _ := grouped.Column("g")
	mean, _ := grouped.Column("v_mean")
	//
	assert.Equal(t, "x", g.Value(0).Str)
	assert.Equal(t, 2.0, mean.Value(0).Float)
	assert.Equal(t, "y", g.Value(1).Str)
	assert.Equal(t, 5.0, mean.Value(1).Float)
}

func TestGroupByStdDev(t *testing.T) {
	tbl := mustTable(t,
		NewStringColumn("g", []string{"x", "x", "y"}),
		NewFloatColumn("v", []float64{1, 3, 5}),
	)
	//
	grouped, err := GroupBy(tbl, []string{"g"}, []Aggregation{{Column: "v", Op: ReduceStdDev}}, true)
	require.NoError(t, err)
	//
	sd, _ := grouped.Column("v_stddev")
	// Sample standard deviation of {1,3}
	assert.InDelta(t, math.Sqrt2, sd.Value(0).Float, 1e-9)
	// A single-row group has no sample standard deviation.
	assert.True(t, sd.Value(1).Missing)
}

func TestGroupBySkipMissing(t *testing.T) {
	v := NewFloatColumn("v", []float64{1, 99, 3})
	v.SetMissing(1)
	//
	tbl := mustTable(t, NewStringColumn("g", []string{"x", "x", "x"}), v)
	// Skipping: the missing value is excluded from the mean.
	grouped, err := GroupBy(tbl, []string{"g"}, []Aggregation{{Column: "v", Op: ReduceMean}}, true)
	require.NoError(t, err)
	//
	mean, _ := grouped.Column("v_mean")
	assert.Equal(t, 2.0, mean.Value(0).Float)
	// Keeping: a single missing value poisons the statistic.
	grouped, err = GroupBy(tbl, []string{"g"}, []Aggregation{{Column: "v", Op: ReduceMean}}, false)
	require.NoError(t, err)
	//
	mean, _ = grouped.Column("v_mean")
	assert.True(t, mean.Value(0).Missing)
}

func TestGroupByMissingKeyFormsOwnGroup(t *testing.T) {
	g := NewStringColumn("g", []string{"x", "", "x"})
	g.SetMissing(1)
	//
	tbl := mustTable(t, g, NewFloatColumn("v", []float64{1, 7, 3}))
	//
	grouped, err := GroupBy(tbl, []string{"g"}, []Aggregation{{Column: "v", Op: ReduceMean}}, true)
	require.NoError(t, err)
	// Two groups: "x" and the missing group.
	require.Equal(t, 2, grouped.Height())
	//
	var (
		key, _  = grouped.Column("g")
		mean, _ = grouped.Column("v_mean")
	)
	//
	assert.False(t, key.Value(0).Missing)
	assert.Equal(t, 2.0, mean.Value(0).Float)
	assert.True(t, key.Value(1).Missing)
	assert.Equal(t, 7.0, mean.Value(1).Float)
}

func TestGroupByMultipleKeys(t *testing.T) {
	tbl := mustTable(t,
		NewStringColumn("a", []string{"x", "x", "x"}),
		NewIntColumn("b", []int64{1, 2, 1}),
		NewFloatColumn("v", []float64{10, 20, 30}),
	)
	//
	grouped, err := GroupBy(tbl, []string{"a", "b"}, []Aggregation{{Column: "v", Op: ReduceMean}}, true)
	require.NoError(t, err)
	//
	require.Equal(t, 2, grouped.Height())
	//
	mean, _ := grouped.Column("v_mean")
	assert.Equal(t, 20.0, mean.Value(0).Float)
	assert.Equal(t, 20.0, mean.Value(1).Float)
}

func TestGroupByRejectsNonNumericAggregation(t *testing.T) {
	tbl := mustTable(t,
		NewStringColumn("g", []string{"x"}),
		NewStringColumn("v", []string{"a"}),
	)
	//
	_, err := GroupBy(tbl, []string{"g"}, []Aggregation{{Column: "v", Op: ReduceMean}}, true)
	//
	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "v", unsupported.Column)
}

func TestGroupByRequiresKeys(t *testing.T) {
	tbl := mustTable(t, NewFloatColumn("v", []float64{1, 2}))
	//
	_, err := GroupBy(tbl, nil, []Aggregation{{Column: "v", Op: ReduceMean}}, true)
	//
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one key column")
}

func TestGroupByUnknownKey(t *testing.T) {
	tbl := mustTable(t, NewStringColumn("g", []string{"x"}))
	//
	_, err := GroupBy(tbl, []string{"h"}, nil, true)
	//
	var unknown *UnknownColumnError
	require.ErrorAs(t, err, &unknown)
}
