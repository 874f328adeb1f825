package table

import "fmt"

// The error types below distinguish faulty pipeline construction (bad
// names, bad types, bad keys) from bad data.  Bad data never raises: it
// propagates the missing marker or a non-finite float.  Construction errors
// are always surfaced immediately and nothing is retried.

// FileNotFoundError indicates a source or sink path which did not resolve.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *FileNotFoundError) Unwrap() error {
	return e.Err
}

// FormatError indicates a file which could not be parsed as its declared
// format.
type FormatError struct {
	Path string
	Msg  string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed input: %s", e.Msg)
	}
	//
	return fmt.Sprintf("malformed input %s: %s", e.Path, e.Msg)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// SchemaInferenceError indicates a column whose type could not be
// determined from the data.
type SchemaInferenceError struct {
	Column string
	Reason string
}

func (e *SchemaInferenceError) Error() string {
	return fmt.Sprintf("cannot infer type of column %q: %s", e.Column, e.Reason)
}

// UnknownColumnError indicates a reference to a column name absent from the
// table.
type UnknownColumnError struct {
	Name string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Name)
}

// DuplicateNameError indicates a column name which would collide with an
// existing (or another renamed) column.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate column name %q", e.Name)
}

// HeightMismatchError indicates a column whose length disagrees with the
// table it is being added to.
type HeightMismatchError struct {
	Column string
	Got    int
	Want   int
}

func (e *HeightMismatchError) Error() string {
	return fmt.Sprintf("column %q has %d rows, but table has %d", e.Column, e.Got, e.Want)
}

// MissingKeyColumnError indicates a declared join key absent from one side
// of the join.
type MissingKeyColumnError struct {
	Name string
	Side string
}

func (e *MissingKeyColumnError) Error() string {
	return fmt.Sprintf("join key %q is not a column of the %s table", e.Name, e.Side)
}

// NoCommonKeyError indicates a join with no declared keys and no common
// column names to infer them from.
type NoCommonKeyError struct{}

func (e *NoCommonKeyError) Error() string {
	return "tables share no common column names to join on"
}

// InsufficientDomainError indicates a without-replacement sample whose
// requested size exceeds the sampling domain.
type InsufficientDomainError struct {
	Requested int
	Domain    int
}

func (e *InsufficientDomainError) Error() string {
	return fmt.Sprintf("cannot draw %d distinct values from a domain of %d", e.Requested, e.Domain)
}

// UnsupportedTypeError indicates a column kind which the requested
// operation or target format cannot represent.
type UnsupportedTypeError struct {
	Column string
	Kind   Kind
	Target string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("column %q has kind %s, which %s does not support", e.Column, e.Kind, e.Target)
}
