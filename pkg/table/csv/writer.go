package csv

import (
	encsv "encoding/csv"
	"io"

	"github.com/surveykit/tablepipe/pkg/table"
)

// Write serialises a table as delimited text with a header row.  Missing
// cells are written as empty fields, and categorical cells are written as
// their label text, so the label metadata itself is not carried by this
// format.
func Write(w io.Writer, t *table.Table, delimiter rune) error {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	//
	writer := encsv.NewWriter(w)
	writer.Comma = delimiter
	// Header row
	if err := writer.Write(t.Names()); err != nil {
		return err
	}
	//
	record := make([]string, t.Width())
	//
	for row := 0; row < t.Height(); row++ {
		for i := 0; i < t.Width(); i++ {
			record[i] = t.ColumnAt(i).Value(row).Text()
		}
		//
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	//
	writer.Flush()
	//
	return writer.Error()
}
