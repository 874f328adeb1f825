package xlsx

import (
	"io"

	"github.com/surveykit/tablepipe/pkg/table"
	"github.com/xuri/excelize/v2"
)

// sheet is the single worksheet tables are written to.
const sheet = "Sheet1"

// Write serialises a table as a spreadsheet with a header row.  Missing
// cells are left blank, and categorical cells are written as their label
// text.
func Write(w io.Writer, t *table.Table) error {
	file := excelize.NewFile()
	defer file.Close()
	// Header row
	for i, name := range t.Names() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		// Error check
		if err != nil {
			return err
		}
		//
		if err := file.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	// Data rows
	for row := 0; row < t.Height(); row++ {
		for i := 0; i < t.Width(); i++ {
			v := t.ColumnAt(i).Value(row)
			// Missing cells stay blank
			if v.Missing {
				continue
			}
			//
			cell, err := excelize.CoordinatesToCellName(i+1, row+2)
			// Error check
			if err != nil {
				return err
			}
			//
			if err := file.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return err
			}
		}
	}
	//
	_, err := file.WriteTo(w)
	//
	return err
}

// cellValue maps a cell onto the spreadsheet value space.
func cellValue(v table.Value) any {
	switch v.Kind {
	case table.IntKind:
		return v.Int
	case table.FloatKind:
		return v.Float
	default:
		return v.Text()
	}
}
