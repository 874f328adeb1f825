// Package pipeline composes table transformations into a linear, declarative
// pipeline: source, zero or more stages, sink.  Each stage consumes one
// table (two for joins, which load their secondary input themselves) and
// produces a fresh table, so a failed run leaves no partial state behind.
package pipeline

import (
	log "github.com/sirupsen/logrus"
	"github.com/surveykit/tablepipe/pkg/table"
)

// Stage is one transformation applied to a table.
type Stage interface {
	// Name identifies the stage in logs and error messages.
	Name() string
	// Apply transforms the input table into a new table.
	Apply(t *table.Table) (*table.Table, error)
}

// Pipeline is an ordered sequence of stages.
type Pipeline struct {
	stages []Stage
}

// New constructs an empty pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

// Add appends a stage, returning the pipeline for chaining.
func (p *Pipeline) Add(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Run threads a table through every stage in order, stopping at the first
// failure.
func (p *Pipeline) Run(t *table.Table) (*table.Table, error) {
	var err error
	//
	for _, stage := range p.stages {
		t, err = stage.Apply(t)
		// Error check
		if err != nil {
			return nil, err
		}
		//
		log.Debugf("stage %s: %d rows, %d columns", stage.Name(), t.Height(), t.Width())
	}
	//
	return t, nil
}
