package pipeline

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/surveykit/tablepipe/pkg/tabio"
)

// Definition is a pipeline read from a declarative definition file,
// together with its source and sink paths.
type Definition struct {
	Source string
	Sink   string
	pipe   *Pipeline
}

// stageConfig is the union of every stage's parameters as they appear in a
// definition file; Op selects which stage the entry builds.
type stageConfig struct {
	Op          string            `mapstructure:"op"`
	Columns     []string          `mapstructure:"columns"`
	From        string            `mapstructure:"from"`
	To          string            `mapstructure:"to"`
	Mapping     map[string]string `mapstructure:"mapping"`
	Expr        string            `mapstructure:"expr"`
	Column      string            `mapstructure:"column"`
	Lo          int64             `mapstructure:"lo"`
	Hi          int64             `mapstructure:"hi"`
	Replacement bool              `mapstructure:"replacement"`
	Seed        int64             `mapstructure:"seed"`
	With        string            `mapstructure:"with"`
	On          []string          `mapstructure:"on"`
	Mode        string            `mapstructure:"mode"`
	By          []string          `mapstructure:"by"`
	Mean        []string          `mapstructure:"mean"`
	Stddev      []string          `mapstructure:"stddev"`
	KeepMissing bool              `mapstructure:"keep-missing"`
}

// LoadFile reads a pipeline definition, e.g.:
//
//	source: survey.dta
//	sink: summary.csv
//	stages:
//	  - op: filter
//	    expr: age >= 18
//	  - op: join
//	    with: regions.csv
//	    on: [region]
//	    mode: left
//	  - op: group
//	    by: [region]
//	    mean: [income]
func LoadFile(filename string) (*Definition, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	//
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	//
	var configs []stageConfig
	//
	if err := v.UnmarshalKey("stages", &configs); err != nil {
		return nil, err
	}
	//
	def := &Definition{
		Source: v.GetString("source"),
		Sink:   v.GetString("sink"),
		pipe:   New(),
	}
	//
	if def.Source == "" {
		return nil, fmt.Errorf("pipeline definition %s names no source", filename)
	}
	//
	for i, config := range configs {
		stage, err := buildStage(config)
		// Error check
		if err != nil {
			return nil, fmt.Errorf("stage %d of %s: %w", i+1, filename, err)
		}
		//
		def.pipe.Add(stage)
	}
	//
	return def, nil
}

// Pipeline exposes the loaded stages for programmatic use.
func (d *Definition) Pipeline() *Pipeline {
	return d.pipe
}

// Run loads the source, threads it through the stages, and (when a sink is
// named) saves the result.
func (d *Definition) Run() error {
	t, err := tabio.Load(d.Source, tabio.Options{})
	// Error check
	if err != nil {
		return err
	}
	//
	t, err = d.pipe.Run(t)
	// Error check
	if err != nil {
		return err
	}
	//
	if d.Sink == "" {
		return nil
	}
	//
	return tabio.Save(t, d.Sink, tabio.Options{})
}

// buildStage maps one definition entry onto its stage.
func buildStage(config stageConfig) (Stage, error) {
	switch config.Op {
	case "select":
		return &SelectStage{Columns: config.Columns, From: config.From, To: config.To}, nil
	case "rename":
		return &RenameStage{Mapping: config.Mapping}, nil
	case "filter":
		return &FilterStage{Expr: config.Expr}, nil
	case "mutate":
		return &MutateStage{Column: config.Column, Expr: config.Expr, Seed: config.Seed}, nil
	case "fill":
		return &FillStage{
			Column:      config.Column,
			Lo:          config.Lo,
			Hi:          config.Hi,
			Replacement: config.Replacement,
			Seed:        config.Seed,
		}, nil
	case "join":
		return &JoinStage{With: config.With, On: config.On, Mode: config.Mode}, nil
	case "group":
		return &GroupStage{
			By:          config.By,
			Mean:        config.Mean,
			Stddev:      config.Stddev,
			KeepMissing: config.KeepMissing,
		}, nil
	}
	//
	return nil, fmt.Errorf("unknown pipeline operation %q", config.Op)
}
