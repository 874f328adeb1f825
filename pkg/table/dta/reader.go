package dta

import (
	"io"
	"math"

	"github.com/kshedden/datareader"
	"github.com/surveykit/tablepipe/pkg/table"
)

// Read parses a Stata .dta file into a table.  Numeric columns widen to
// int or float as stored, string columns come across as strings, and Stata
// missing sentinels arrive as the missing marker.  This format is
// import-only: the native binary format (pkg/table/stb) is the
// label-preserving export target.
func Read(r io.ReadSeeker) (*table.Table, error) {
	reader, err := datareader.NewStataReader(r)
	// Error check
	if err != nil {
		return nil, &table.FormatError{Msg: "not a Stata data file", Err: err}
	}
	// Read every record
	series, err := reader.Read(-1)
	// Error check
	if err != nil {
		return nil, &table.FormatError{Msg: "corrupt Stata data file", Err: err}
	}
	//
	var (
		names = reader.ColumnNames()
		cols  = make([]*table.Column, len(series))
	)
	//
	for i, s := range series {
		col, err := convert(names[i], s)
		// Error check
		if err != nil {
			return nil, err
		}
		//
		cols[i] = col
	}
	//
	return table.New(cols...)
}

// convert maps one datareader series onto a column, folding the reader's
// missing mask (and floating point NaN sentinels) into the missing marker.
func convert(name string, s *datareader.Series) (*table.Column, error) {
	mask := s.Missing()
	//
	switch data := s.Data().(type) {
	case []float64:
		col := table.NewFloatColumn(name, data)
		markMissing(col, mask)
		markNaN(col, data)
		//
		return col, nil
	case []float32:
		values := make([]float64, len(data))
		for i, v := range data {
			values[i] = float64(v)
		}
		//
		col := table.NewFloatColumn(name, values)
		markMissing(col, mask)
		markNaN(col, values)
		//
		return col, nil
	case []int64:
		col := table.NewIntColumn(name, data)
		markMissing(col, mask)
		//
		return col, nil
	case []int32:
		return intColumn(name, data, mask), nil
	case []int16:
		return intColumn(name, data, mask), nil
	case []int8:
		return intColumn(name, data, mask), nil
	case []uint8:
		return intColumn(name, data, mask), nil
	case []string:
		col := table.NewStringColumn(name, data)
		markMissing(col, mask)
		//
		return col, nil
	}
	//
	return nil, &table.SchemaInferenceError{Column: name, Reason: "unsupported Stata storage type"}
}

func intColumn[T int8 | int16 | int32 | uint8](name string, data []T, mask []bool) *table.Column {
	values := make([]int64, len(data))
	for i, v := range data {
		values[i] = int64(v)
	}
	//
	col := table.NewIntColumn(name, values)
	markMissing(col, mask)
	//
	return col
}

func markMissing(col *table.Column, mask []bool) {
	for row, missing := range mask {
		if missing {
			col.SetMissing(row)
		}
	}
}

func markNaN(col *table.Column, values []float64) {
	for row, v := range values {
		if math.IsNaN(v) {
			col.SetMissing(row)
		}
	}
}
