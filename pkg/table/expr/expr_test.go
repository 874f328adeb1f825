package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surveykit/tablepipe/pkg/table"
)

func fixture(t *testing.T) *table.Table {
	t.Helper()
	//
	age := table.NewIntColumn("age", []int64{36, 12, 0})
	age.SetMissing(2)
	//
	tbl, err := table.New(
		table.NewStringColumn("name", []string{"ada", "bob", "cat"}),
		age,
		table.NewFloatColumn("income", []float64{1000, 2000, 6000}),
		table.NewCategoricalColumn("sex", []int64{1, 2, 1}, table.Labels{1: "male", 2: "female"}),
	)
	require.NoError(t, err)
	//
	return tbl
}

// evalBool binds a predicate expression and evaluates it over every row.
func evalBool(t *testing.T, tbl *table.Table, src string) []bool {
	t.Helper()
	//
	program, err := Compile(src)
	require.NoError(t, err)
	//
	bound, err := program.Bind(tbl)
	require.NoError(t, err)
	//
	pred, err := bound.Predicate()
	require.NoError(t, err)
	//
	results := make([]bool, tbl.Height())
	//
	for row := range results {
		results[row], err = pred.At(row)
		require.NoError(t, err)
	}
	//
	return results
}

// evalValues binds a derivation expression and evaluates it over every row.
func evalValues(t *testing.T, tbl *table.Table, src string) []table.Value {
	t.Helper()
	//
	program, err := Compile(src)
	require.NoError(t, err)
	//
	bound, err := program.Bind(tbl)
	require.NoError(t, err)
	//
	deriver, err := bound.Deriver()
	require.NoError(t, err)
	//
	results := make([]table.Value, tbl.Height())
	//
	for row := range results {
		v, err := deriver.At(row)
		require.NoError(t, err)
		results[row] = v
	}
	//
	return results
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []bool
	}{
		{"comparison", "age >= 18", []bool{true, false, false}},
		{"single equals", "name = 'bob'", []bool{false, true, false}},
		{"negated equality", "name != 'bob'", []bool{true, false, true}},
		{"conjunction", "age >= 18 && income < 1500", []bool{true, false, false}},
		{"disjunction", "age < 18 || income > 5000", []bool{false, true, false}},
		{"negation", "!(name == 'ada')", []bool{false, true, true}},
		{"arithmetic operand", "income / 12 > 100", []bool{false, true, true}},
		{"categorical label", "sex == 'female'", []bool{false, true, false}},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evalBool(t, fixture(t), tt.src))
		})
	}
}

func TestMissingComparesFalseEitherWay(t *testing.T) {
	tbl := fixture(t)
	// Row 2 has a missing age: both the comparison and its complement are
	// false, rather than an error.
	assert.False(t, evalBool(t, tbl, "age >= 18")[2])
	assert.False(t, evalBool(t, tbl, "age < 18")[2])
}

func TestArithmeticDerivation(t *testing.T) {
	values := evalValues(t, fixture(t), "income / 12 + 1")
	//
	assert.Equal(t, table.FloatKind, values[0].Kind)
	assert.InDelta(t, 1000.0/12+1, values[0].Float, 1e-9)
}

func TestIntegerArithmeticStaysIntegral(t *testing.T) {
	values := evalValues(t, fixture(t), "age * 2 + 1")
	//
	assert.Equal(t, table.IntKind, values[0].Kind)
	assert.Equal(t, int64(73), values[0].Int)
	// Missing propagates through arithmetic.
	assert.True(t, values[2].Missing)
}

func TestDivisionByZeroIsNonFinite(t *testing.T) {
	values := evalValues(t, fixture(t), "income / 0")
	//
	assert.False(t, values[0].Missing)
	assert.True(t, math.IsInf(values[0].Float, 1))
}

func TestCasts(t *testing.T) {
	tbl := fixture(t)
	// float of an int column
	values := evalValues(t, tbl, "float(age)")
	assert.Equal(t, table.FloatKind, values[0].Kind)
	assert.Equal(t, 36.0, values[0].Float)
	// int truncates
	values = evalValues(t, tbl, "int(income / 12)")
	assert.Equal(t, int64(83), values[0].Int)
	// str renders
	values = evalValues(t, tbl, "str(age)")
	assert.Equal(t, "36", values[0].Str)
	// unparseable text degrades to missing
	values = evalValues(t, tbl, "int(name)")
	assert.True(t, values[0].Missing)
}

func TestAggregateFunctions(t *testing.T) {
	// Centering a column around its mean.
	values := evalValues(t, fixture(t), "income - mean(income)")
	//
	assert.Equal(t, -2000.0, values[0].Float)
	assert.Equal(t, 3000.0, values[2].Float)
	// Standard deviation is a constant across rows.
	values = evalValues(t, fixture(t), "stddev(income)")
	assert.InDelta(t, 2645.751311, values[0].Float, 1e-5)
}

func TestRunifRespectsBounds(t *testing.T) {
	program, err := Compile("runif(5, 10)")
	require.NoError(t, err)
	//
	bound, err := program.Bind(fixture(t))
	require.NoError(t, err)
	bound.Seed(3)
	//
	deriver, err := bound.Deriver()
	require.NoError(t, err)
	//
	for row := 0; row < 3; row++ {
		v, err := deriver.At(row)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v.Float, 5.0)
		assert.Less(t, v.Float, 10.0)
	}
}

func TestBindUnknownColumn(t *testing.T) {
	program, err := Compile("weight > 10")
	require.NoError(t, err)
	//
	_, err = program.Bind(fixture(t))
	//
	var unknown *table.UnknownColumnError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "weight", unknown.Name)
}

func TestTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"arithmetic on text", "name + 1"},
		{"comparing text with number", "name > 10"},
		{"logic on numbers", "age && income"},
		{"negating text", "-name"},
		{"unknown function", "median(income)"},
		{"aggregate of text", "mean(name)"},
		{"runif non-constant", "runif(age, 10)"},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := Compile(tt.src)
			require.NoError(t, err)
			//
			_, err = program.Bind(fixture(t))
			//
			var typeErr *TypeError
			require.ErrorAs(t, err, &typeErr)
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"dangling operator", "age >"},
		{"unbalanced parens", "(age > 1"},
		{"unterminated string", "name == 'bob"},
		{"trailing garbage", "age > 1 age"},
		{"lone ampersand", "age > 1 & age < 9"},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src)
			//
			var syntax *SyntaxError
			require.ErrorAs(t, err, &syntax)
		})
	}
}

func TestPredicateRequiresBool(t *testing.T) {
	program, err := Compile("income / 12")
	require.NoError(t, err)
	//
	bound, err := program.Bind(fixture(t))
	require.NoError(t, err)
	//
	_, err = bound.Predicate()
	assert.Error(t, err)
}

func TestDeriverRejectsBool(t *testing.T) {
	program, err := Compile("age > 18")
	require.NoError(t, err)
	//
	bound, err := program.Bind(fixture(t))
	require.NoError(t, err)
	//
	_, err = bound.Deriver()
	assert.Error(t, err)
}
