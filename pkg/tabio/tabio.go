// Package tabio is the front door for table file I/O: it resolves a format
// from the path or an explicit override, and dispatches to the format
// packages.  Saving overwrites existing files without warning, which is
// deliberate: pipelines are re-run, and their outputs are products, not
// records.
package tabio

import (
	"bytes"
	"fmt"
	"os"
	"path"

	log "github.com/sirupsen/logrus"
	"github.com/surveykit/tablepipe/pkg/table"
	"github.com/surveykit/tablepipe/pkg/table/csv"
	"github.com/surveykit/tablepipe/pkg/table/dta"
	"github.com/surveykit/tablepipe/pkg/table/stb"
	"github.com/surveykit/tablepipe/pkg/table/xlsx"
)

// Format identifies a table file format.
type Format uint8

const (
	// FormatAuto resolves the format from the path's extension.
	FormatAuto Format = iota
	// FormatCSV is comma separated text with a header row.
	FormatCSV
	// FormatTSV is tab separated text with a header row.
	FormatTSV
	// FormatDTA is the Stata binary format (import only).
	FormatDTA
	// FormatSTB is the native binary table format.
	FormatSTB
	// FormatXLSX is a spreadsheet (export only).
	FormatXLSX
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatDTA:
		return "dta"
	case FormatSTB:
		return "stb"
	case FormatXLSX:
		return "xlsx"
	}
	//
	return fmt.Sprintf("format(%d)", f)
}

// ParseFormat reverses Format.String, for format override flags.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "auto":
		return FormatAuto, nil
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	case "dta":
		return FormatDTA, nil
	case "stb":
		return FormatSTB, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	//
	return 0, fmt.Errorf("unknown table format %q", s)
}

// DetectFormat resolves a format from a path's extension.
func DetectFormat(filename string) (Format, error) {
	switch ext := path.Ext(filename); ext {
	case ".csv":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	case ".dta":
		return FormatDTA, nil
	case ".stb":
		return FormatSTB, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return 0, fmt.Errorf("unknown table file extension %q", ext)
	}
}

// Options configures loading and saving.
type Options struct {
	// Format overrides extension-based detection when not FormatAuto.
	Format Format
	// Delimiter overrides the delimiter for delimited-text files.  Zero
	// means the format's default (comma for csv, tab for tsv).
	Delimiter rune
}

// Load reads a table from a file, resolving the format from the options or
// the path.
func Load(filename string, opts Options) (*table.Table, error) {
	format, err := resolve(filename, opts.Format)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	data, err := os.ReadFile(filename)
	// Error check
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &table.FileNotFoundError{Path: filename, Err: err}
		}
		//
		return nil, err
	}
	//
	var t *table.Table
	//
	switch format {
	case FormatCSV:
		t, err = csv.Read(bytes.NewReader(data), delimiter(opts.Delimiter, ','))
	case FormatTSV:
		t, err = csv.Read(bytes.NewReader(data), delimiter(opts.Delimiter, '\t'))
	case FormatDTA:
		t, err = dta.Read(bytes.NewReader(data))
	case FormatSTB:
		t, err = stb.Read(data)
	default:
		err = fmt.Errorf("cannot load tables from %s files", format)
	}
	// Error check
	if err != nil {
		return nil, annotate(err, filename)
	}
	//
	log.Debugf("loaded %s (%d rows, %d columns)", filename, t.Height(), t.Width())
	//
	return t, nil
}

// Save writes a table to a file, resolving the format from the options or
// the path.  Any existing file at the path is overwritten.
func Save(t *table.Table, filename string, opts Options) error {
	format, err := resolve(filename, opts.Format)
	// Error check
	if err != nil {
		return err
	}
	//
	var buffer bytes.Buffer
	//
	switch format {
	case FormatCSV:
		err = csv.Write(&buffer, t, delimiter(opts.Delimiter, ','))
	case FormatTSV:
		err = csv.Write(&buffer, t, delimiter(opts.Delimiter, '\t'))
	case FormatSTB:
		err = stb.Write(&buffer, t)
	case FormatXLSX:
		err = xlsx.Write(&buffer, t)
	default:
		err = fmt.Errorf("cannot save tables as %s files", format)
	}
	// Error check
	if err != nil {
		return annotate(err, filename)
	}
	//
	if err := os.WriteFile(filename, buffer.Bytes(), 0644); err != nil {
		return err
	}
	//
	log.Debugf("saved %s (%d rows, %d columns)", filename, t.Height(), t.Width())
	//
	return nil
}

// resolve applies the format override, falling back to extension detection.
func resolve(filename string, format Format) (Format, error) {
	if format != FormatAuto {
		return format, nil
	}
	//
	return DetectFormat(filename)
}

func delimiter(configured, fallback rune) rune {
	if configured != 0 {
		return configured
	}
	//
	return fallback
}

// annotate stamps the offending path onto format errors which lack one.
func annotate(err error, filename string) error {
	if ferr, ok := err.(*table.FormatError); ok && ferr.Path == "" {
		ferr.Path = filename
	}
	//
	return err
}
