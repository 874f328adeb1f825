package csv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surveykit/tablepipe/pkg/table"
)

func TestReadInfersKinds(t *testing.T) {
	input := "name,age,income\nada,36,1000.5\nbob,12,2000\n"
	//
	tbl, err := Read(strings.NewReader(input), 0)
	require.NoError(t, err)
	//
	require.Equal(t, 2, tbl.Height())
	assert.Equal(t, []string{"name", "age", "income"}, tbl.Names())
	//
	assert.Equal(t, table.StringKind, tbl.ColumnAt(0).Kind())
	assert.Equal(t, table.IntKind, tbl.ColumnAt(1).Kind())
	// One decimal cell narrows the whole column to float.
	assert.Equal(t, table.FloatKind, tbl.ColumnAt(2).Kind())
	//
	age, err := tbl.Column("age")
	require.NoError(t, err)
	assert.Equal(t, int64(36), age.Value(0).Int)
}

func TestReadEmptyCellIsMissing(t *testing.T) {
	input := "age\n36\n\n12\n"
	//
	tbl, err := Read(strings.NewReader(input), 0)
	require.NoError(t, err)
	//
	require.Equal(t, 3, tbl.Height())
	// The empty cell does not disturb inference of the remaining cells.
	assert.Equal(t, table.IntKind, tbl.ColumnAt(0).Kind())
	assert.True(t, tbl.ColumnAt(0).Value(1).Missing)
	assert.Equal(t, int64(12), tbl.ColumnAt(0).Value(2).Int)
}

func TestReadAllEmptyColumnFails(t *testing.T) {
	input := "name,ghost\nada,\nbob,\n"
	//
	_, err := Read(strings.NewReader(input), 0)
	//
	var inference *table.SchemaInferenceError
	require.ErrorAs(t, err, &inference)
	assert.Equal(t, "ghost", inference.Column)
}

func TestReadHeaderOnly(t *testing.T) {
	// A header with no data rows is a valid, empty table.
	tbl, err := Read(strings.NewReader("a,b\n"), 0)
	require.NoError(t, err)
	//
	assert.Equal(t, 0, tbl.Height())
	assert.Equal(t, 2, tbl.Width())
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"ragged record", "a,b\n1\n"},
		{"stray quote", "a\n\"x\n"},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), 0)
			//
			var format *table.FormatError
			require.ErrorAs(t, err, &format)
		})
	}
}

func TestReadDuplicateHeader(t *testing.T) {
	_, err := Read(strings.NewReader("a,a\n1,2\n"), 0)
	//
	var duplicate *table.DuplicateNameError
	require.ErrorAs(t, err, &duplicate)
}

func TestReadTabDelimited(t *testing.T) {
	tbl, err := Read(strings.NewReader("a\tb\n1\t2\n"), '\t')
	require.NoError(t, err)
	//
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
	assert.Equal(t, int64(2), tbl.ColumnAt(1).Value(0).Int)
}

func TestRoundTrip(t *testing.T) {
	age := table.NewIntColumn("age", []int64{36, 0, 29})
	age.SetMissing(1)
	//
	tbl, err := table.New(
		table.NewStringColumn("name", []string{"ada", "bob", "cat"}),
		age,
		table.NewFloatColumn("income", []float64{1000.5, 2000, 3000}),
	)
	require.NoError(t, err)
	//
	var buffer bytes.Buffer
	require.NoError(t, Write(&buffer, tbl, 0))
	//
	back, err := Read(&buffer, 0)
	require.NoError(t, err)
	//
	require.Equal(t, tbl.Height(), back.Height())
	require.Equal(t, tbl.Names(), back.Names())
	//
	for i := 0; i < tbl.Width(); i++ {
		for row := 0; row < tbl.Height(); row++ {
			assert.Equal(t, tbl.ColumnAt(i).Value(row), back.ColumnAt(i).Value(row))
		}
	}
}

func TestWriteCategoricalAsLabels(t *testing.T) {
	tbl, err := table.New(
		table.NewCategoricalColumn("sex", []int64{1, 2}, table.Labels{1: "male", 2: "female"}),
	)
	require.NoError(t, err)
	//
	var buffer bytes.Buffer
	require.NoError(t, Write(&buffer, tbl, 0))
	//
	assert.Equal(t, "sex\nmale\nfemale\n", buffer.String())
}
