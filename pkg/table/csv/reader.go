package csv

import (
	encsv "encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/surveykit/tablepipe/pkg/table"
)

// DefaultDelimiter is used whenever no delimiter is configured.
const DefaultDelimiter = ','

// Read parses delimited text into a table.  The first record is the header
// row defining column names.  Column types are inferred over all data rows,
// narrowing from int to float to string; an empty cell is the missing
// marker and contributes nothing to inference.  A column with no non-empty
// cell at all has no inferable type and is rejected.
func Read(r io.Reader, delimiter rune) (*table.Table, error) {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	//
	reader := encsv.NewReader(r)
	reader.Comma = delimiter
	//
	records, err := reader.ReadAll()
	// Error check
	if err != nil {
		return nil, &table.FormatError{Msg: "invalid delimited text", Err: err}
	}
	//
	if len(records) == 0 {
		return nil, &table.FormatError{Msg: "missing header row"}
	}
	//
	header := records[0]
	cols := make([]*table.Column, len(header))
	//
	for i, name := range header {
		col, err := inferColumn(name, records[1:], i)
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

// inferColumn types and builds one column from the cells at a given field
// position.
func inferColumn(name string, records [][]string, field int) (*table.Column, error) {
	var (
		isInt    = true
		isFloat  = true
		nonEmpty = 0
	)
	//
	for _, record := range records {
		cell := strings.TrimSpace(record[field])
		//
		if cell == "" {
			continue
		}
		//
		nonEmpty++
		//
		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			isInt = false
		}
		//
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			isFloat = false
		}
	}
	//
	if len(records) > 0 && nonEmpty == 0 {
		return nil, &table.SchemaInferenceError{Column: name, Reason: "every cell is empty"}
	}
	//
	col := emptyColumn(name, isInt, isFloat)
	//
	for _, record := range records {
		cell := strings.TrimSpace(record[field])
		//
		if err := col.Append(parseCell(cell, col.Kind())); err != nil {
			return nil, err
		}
	}
	//
	return col, nil
}

func emptyColumn(name string, isInt, isFloat bool) *table.Column {
	switch {
	case isInt:
		return table.NewIntColumn(name, nil)
	case isFloat:
		return table.NewFloatColumn(name, nil)
	default:
		return table.NewStringColumn(name, nil)
	}
}

// parseCell converts one cell to the column's inferred kind.  Parsing
// cannot fail here since inference has already seen every cell.
func parseCell(cell string, kind table.Kind) table.Value {
	if cell == "" {
		return table.MissingValue(kind)
	}
	//
	switch kind {
	case table.IntKind:
		i, _ := strconv.ParseInt(cell, 10, 64)
		return table.IntValue(i)
	case table.FloatKind:
		f, _ := strconv.ParseFloat(cell, 64)
		return table.FloatValue(f)
	default:
		return table.StringValue(cell)
	}
}
