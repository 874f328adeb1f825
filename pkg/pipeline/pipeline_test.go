package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surveykit/tablepipe/pkg/table"
	"github.com/surveykit/tablepipe/pkg/tabio"
)

func surveyFixture(t *testing.T) *table.Table {
	t.Helper()
	//
	tbl, err := table.New(
		table.NewStringColumn("name", []string{"ada", "bob", "cat", "dan"}),
		table.NewIntColumn("age", []int64{36, 12, 29, 45}),
		table.NewStringColumn("region", []string{"north", "north", "south", "south"}),
		table.NewFloatColumn("income", []float64{1000, 0, 3000, 5000}),
	)
	require.NoError(t, err)
	//
	return tbl
}

func TestRunAppliesStagesInOrder(t *testing.T) {
	pipe := New().
		Add(&FilterStage{Expr: "age >= 18"}).
		Add(&MutateStage{Column: "monthly", Expr: "income / 12"}).
		Add(&SelectStage{Columns: []string{"name", "monthly"}})
	//
	require.Equal(t, 3, pipe.Len())
	//
	out, err := pipe.Run(surveyFixture(t))
	require.NoError(t, err)
	//
	require.Equal(t, 3, out.Height())
	assert.Equal(t, []string{"name", "monthly"}, out.Names())
	//
	monthly, err := out.Column("monthly")
	require.NoError(t, err)
	assert.InDelta(t, 1000.0/12, monthly.Value(0).Float, 1e-9)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	pipe := New().
		Add(&SelectStage{Columns: []string{"ghost"}}).
		Add(&FilterStage{Expr: "age >= 18"})
	//
	_, err := pipe.Run(surveyFixture(t))
	//
	var unknown *table.UnknownColumnError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "ghost", unknown.Name)
}

func TestGroupStage(t *testing.T) {
	stage := &GroupStage{By: []string{"region"}, Mean: []string{"income"}}
	//
	out, err := stage.Apply(surveyFixture(t))
	require.NoError(t, err)
	//
	require.Equal(t, 2, out.Height())
	//
	mean, err := out.Column("income_mean")
	require.NoError(t, err)
	assert.Equal(t, 500.0, mean.Value(0).Float)
	assert.Equal(t, 4000.0, mean.Value(1).Float)
}

func TestJoinStageLoadsSecondaryFile(t *testing.T) {
	dir := t.TempDir()
	regions := filepath.Join(dir, "regions.csv")
	//
	require.NoError(t, os.WriteFile(regions, []byte("region,manager\nnorth,eve\nsouth,finn\n"), 0644))
	//
	stage := &JoinStage{With: regions, Mode: "left"}
	//
	out, err := stage.Apply(surveyFixture(t))
	require.NoError(t, err)
	//
	require.Equal(t, 4, out.Height())
	//
	manager, err := out.Column("manager")
	require.NoError(t, err)
	assert.Equal(t, "eve", manager.Value(0).Str)
	assert.Equal(t, "finn", manager.Value(2).Str)
}

func TestLoadFileBuildsDefinition(t *testing.T) {
	dir := t.TempDir()
	//
	definition := filepath.Join(dir, "pipeline.yaml")
	contents := `source: survey.csv
sink: out.csv
stages:
  - op: filter
    expr: age >= 18
  - op: rename
    mapping:
      income: salary
  - op: group
    by: [region]
    mean: [salary]
    stddev: [salary]
`
	require.NoError(t, os.WriteFile(definition, []byte(contents), 0644))
	//
	def, err := LoadFile(definition)
	require.NoError(t, err)
	//
	assert.Equal(t, "survey.csv", def.Source)
	assert.Equal(t, "out.csv", def.Sink)
	assert.Equal(t, 3, def.Pipeline().Len())
}

func TestLoadFileRejectsUnknownOp(t *testing.T) {
	dir := t.TempDir()
	//
	definition := filepath.Join(dir, "pipeline.yaml")
	contents := `source: survey.csv
stages:
  - op: transmogrify
`
	require.NoError(t, os.WriteFile(definition, []byte(contents), 0644))
	//
	_, err := LoadFile(definition)
	//
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transmogrify")
}

func TestLoadFileRequiresSource(t *testing.T) {
	dir := t.TempDir()
	//
	definition := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(definition, []byte("sink: out.csv\n"), 0644))
	//
	_, err := LoadFile(definition)
	require.Error(t, err)
}

func TestDefinitionRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	//
	source := filepath.Join(dir, "survey.csv")
	sink := filepath.Join(dir, "adults.csv")
	definition := filepath.Join(dir, "pipeline.yaml")
	//
	require.NoError(t, os.WriteFile(source,
		[]byte("name,age\nada,36\nbob,12\ncat,29\n"), 0644))
	//
	contents := `source: ` + source + `
sink: ` + sink + `
stages:
  - op: filter
    expr: age >= 18
`
	require.NoError(t, os.WriteFile(definition, []byte(contents), 0644))
	//
	def, err := LoadFile(definition)
	require.NoError(t, err)
	require.NoError(t, def.Run())
	//
	out, err := tabio.Load(sink, tabio.Options{})
	require.NoError(t, err)
	//
	require.Equal(t, 2, out.Height())
	//
	names, err := out.Column("name")
	require.NoError(t, err)
	assert.Equal(t, "ada", names.Value(0).Str)
	assert.Equal(t, "cat", names.Value(1).Str)
}
