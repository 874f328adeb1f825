package pipeline

import (
	"github.com/surveykit/tablepipe/pkg/table"
	"github.com/surveykit/tablepipe/pkg/table/expr"
	"github.com/surveykit/tablepipe/pkg/tabio"
)

// SelectStage projects the table onto the named columns and/or a contiguous
// column range.
type SelectStage struct {
	// Columns to retain, by name.
	Columns []string
	// From and To bound a contiguous range, retained after Columns.  Both
	// must be set for the range to apply.
	From string
	To   string
}

// Name implements Stage.
func (s *SelectStage) Name() string { return "select" }

// Apply implements Stage.
func (s *SelectStage) Apply(t *table.Table) (*table.Table, error) {
	var selectors []table.Selector
	//
	if len(s.Columns) > 0 {
		selectors = append(selectors, table.Names(s.Columns...))
	}
	//
	if s.From != "" && s.To != "" {
		selectors = append(selectors, table.Range(s.From, s.To))
	}
	//
	return table.Select(t, selectors...)
}

// RenameStage renames columns according to an old-to-new mapping.
type RenameStage struct {
	Mapping map[string]string
}

// Name implements Stage.
func (s *RenameStage) Name() string { return "rename" }

// Apply implements Stage.
func (s *RenameStage) Apply(t *table.Table) (*table.Table, error) {
	return table.Rename(t, s.Mapping)
}

// FilterStage retains rows satisfying a boolean expression.
type FilterStage struct {
	Expr string
}

// Name implements Stage.
func (s *FilterStage) Name() string { return "filter" }

// Apply implements Stage.
func (s *FilterStage) Apply(t *table.Table) (*table.Table, error) {
	program, err := expr.Compile(s.Expr)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	bound, err := program.Bind(t)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	pred, err := bound.Predicate()
	// Error check
	if err != nil {
		return nil, err
	}
	//
	return table.Filter(t, pred)
}

// MutateStage derives a column from an expression, replacing any existing
// column of the same name.
type MutateStage struct {
	Column string
	Expr   string
	// Seed, when nonzero, makes runif calls deterministic.
	Seed int64
}

// Name implements Stage.
func (s *MutateStage) Name() string { return "mutate" }

// Apply implements Stage.
func (s *MutateStage) Apply(t *table.Table) (*table.Table, error) {
	program, err := expr.Compile(s.Expr)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	bound, err := program.Bind(t)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	if s.Seed != 0 {
		bound.Seed(s.Seed)
	}
	//
	deriver, err := bound.Deriver()
	// Error check
	if err != nil {
		return nil, err
	}
	//
	return table.Mutate(t, s.Column, deriver)
}

// FillStage fills a column with uniform pseudo-random integers.
type FillStage struct {
	Column      string
	Lo          int64
	Hi          int64
	Replacement bool
	Seed        int64
}

// Name implements Stage.
func (s *FillStage) Name() string { return "fill" }

// Apply implements Stage.
func (s *FillStage) Apply(t *table.Table) (*table.Table, error) {
	return table.FillRandom(t, s.Column, s.Lo, s.Hi, s.Replacement, s.Seed)
}

// JoinStage joins the table against a secondary input file.
type JoinStage struct {
	// With is the path of the right-hand table.
	With string
	// On lists the key columns; empty means the common column names.
	On []string
	// Mode is one of left, right, inner, full.
	Mode string
}

// Name implements Stage.
func (s *JoinStage) Name() string { return "join" }

// Apply implements Stage.
func (s *JoinStage) Apply(t *table.Table) (*table.Table, error) {
	mode, err := table.ParseJoinMode(s.Mode)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	right, err := tabio.Load(s.With, tabio.Options{})
	// Error check
	if err != nil {
		return nil, err
	}
	//
	return table.Join(t, right, s.On, mode)
}

// GroupStage groups rows by key columns and reduces each group to summary
// statistics.
type GroupStage struct {
	By []string
	// Mean and Stddev list the columns reduced with each statistic.
	Mean   []string
	Stddev []string
	// KeepMissing makes missing values poison their statistic, rather
	// than being skipped.
	KeepMissing bool
}

// Name implements Stage.
func (s *GroupStage) Name() string { return "group" }

// Apply implements Stage.
func (s *GroupStage) Apply(t *table.Table) (*table.Table, error) {
	var aggs []table.Aggregation
	//
	for _, column := range s.Mean {
		aggs = append(aggs, table.Aggregation{Column: column, Op: table.ReduceMean})
	}
	//
	for _, column := range s.Stddev {
		aggs = append(aggs, table.Aggregation{Column: column, Op: table.ReduceStdDev})
	}
	//
	return table.GroupBy(t, s.By, aggs, !s.KeepMissing)
}
