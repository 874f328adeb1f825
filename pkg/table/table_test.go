package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustTable builds a table from the given columns, failing the test on any
// invariant violation.
func mustTable(t *testing.T, cols ...*Column) *Table {
	t.Helper()
	//
	tbl, err := New(cols...)
	require.NoError(t, err)
	//
	return tbl
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New(NewIntColumn("a", []int64{1}), NewFloatColumn("a", []float64{1}))
	//
	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Name)
}

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New(NewIntColumn("a", []int64{1, 2}), NewIntColumn("b", []int64{1}))
	//
	var mismatch *HeightMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "b", mismatch.Column)
}

func TestColumnLookup(t *testing.T) {
	tbl := mustTable(t,
		NewStringColumn("name", []string{"ada", "bob"}),
		NewIntColumn("age", []int64{36, 41}),
	)
	//
	assert.Equal(t, 2, tbl.Height())
	assert.Equal(t, 2, tbl.Width())
	assert.Equal(t, []string{"name", "age"}, tbl.Names())
	//
	col, err := tbl.Column("age")
	require.NoError(t, err)
	assert.Equal(t, IntKind, col.Kind())
	//
	_, err = tbl.Column("height")
	//
	var unknown *UnknownColumnError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "height", unknown.Name)
}

func TestMissingIsDistinctFromZero(t *testing.T) {
	col := NewIntColumn("v", []int64{0, 7})
	col.SetMissing(1)
	//
	assert.False(t, col.IsMissing(0))
	assert.True(t, col.IsMissing(1))
	// Row 0 is a real zero
	v := col.Value(0)
	assert.False(t, v.Missing)
	assert.Equal(t, int64(0), v.Int)
	// Row 1 is missing, regardless of the stored payload
	assert.True(t, col.Value(1).Missing)
	assert.Equal(t, "", col.Value(1).Text())
}

func TestCategoricalValuesResolveLabels(t *testing.T) {
	col := NewCategoricalColumn("sex", []int64{1, 2, 1}, Labels{1: "male", 2: "female"})
	//
	assert.Equal(t, "male", col.Value(0).Text())
	assert.Equal(t, "female", col.Value(1).Text())
	assert.Equal(t, int64(1), col.Value(2).Int)
}

func TestCloneSharesNoStorage(t *testing.T) {
	tbl := mustTable(t, NewIntColumn("v", []int64{1, 2, 3}))
	clone := tbl.Clone()
	// Mutating the clone must leave the original untouched.
	col, err := clone.Column("v")
	require.NoError(t, err)
	col.SetMissing(0)
	//
	original, err := tbl.Column("v")
	require.NoError(t, err)
	assert.False(t, original.IsMissing(0))
}
