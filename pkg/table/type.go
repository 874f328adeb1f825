package table

import (
	"fmt"
	"sort"
)

// Kind identifies the semantic type of a column.  Every cell of a column
// holds a value of its column's kind, or the missing marker.
type Kind uint8

const (
	// StringKind is for free-text values.
	StringKind Kind = iota
	// IntKind is for signed integer values.
	IntKind
	// FloatKind is for floating point values.
	FloatKind
	// CategoricalKind is for coded values carrying a value-label mapping,
	// such as survey responses stored as small integers.
	CategoricalKind
)

// IsNumeric reports whether values of this kind can participate in
// arithmetic and summary statistics.
func (k Kind) IsNumeric() bool {
	return k == IntKind || k == FloatKind
}

func (k Kind) String() string {
	switch k {
	case StringKind:
		return "string"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case CategoricalKind:
		return "categorical"
	}
	//
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind reverses Kind.String, for formats which store kinds by name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "string":
		return StringKind, nil
	case "int":
		return IntKind, nil
	case "float":
		return FloatKind, nil
	case "categorical":
		return CategoricalKind, nil
	}
	//
	return 0, fmt.Errorf("unknown column kind %q", s)
}

// Labels maps categorical codes to their display text.
type Labels map[int64]string

// Clone produces a copy of this label mapping which shares nothing with the
// original.
func (l Labels) Clone() Labels {
	if l == nil {
		return nil
	}
	//
	n := make(Labels, len(l))
	for code, text := range l {
		n[code] = text
	}
	//
	return n
}

// Codes returns all labelled codes in ascending order, giving formats a
// deterministic serialisation order.
func (l Labels) Codes() []int64 {
	codes := make([]int64, 0, len(l))
	for code := range l {
		codes = append(codes, code)
	}
	//
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	//
	return codes
}

// Value is a single cell extracted from a column.  The Kind field is always
// set, even when the value is missing.  For CategoricalKind, Int holds the
// code and Str the resolved label text.
type Value struct {
	Kind    Kind
	Missing bool
	Str     string
	Int     int64
	Float   float64
}

// MissingValue constructs the missing marker for a given kind.
func MissingValue(kind Kind) Value {
	return Value{Kind: kind, Missing: true}
}

// StringValue constructs a string cell.
func StringValue(s string) Value {
	return Value{Kind: StringKind, Str: s}
}

// IntValue constructs an integer cell.
func IntValue(i int64) Value {
	return Value{Kind: IntKind, Int: i}
}

// FloatValue constructs a floating point cell.
func FloatValue(f float64) Value {
	return Value{Kind: FloatKind, Float: f}
}

// AsFloat provides a numeric view of this value, widening integers.  The
// second result is false for missing or non-numeric values.
func (v Value) AsFloat() (float64, bool) {
	if v.Missing {
		return 0, false
	}
	//
	switch v.Kind {
	case IntKind:
		return float64(v.Int), true
	case FloatKind:
		return v.Float, true
	}
	//
	return 0, false
}

// Text renders this value for display or delimited-text export.  Missing
// values render as the empty string, and categorical values render as their
// label text (falling back to the bare code when unlabelled).
func (v Value) Text() string {
	if v.Missing {
		return ""
	}
	//
	switch v.Kind {
	case StringKind:
		return v.Str
	case IntKind:
		return fmt.Sprintf("%d", v.Int)
	case FloatKind:
		return formatFloat(v.Float)
	case CategoricalKind:
		if v.Str != "" {
			return v.Str
		}
		//
		return fmt.Sprintf("%d", v.Int)
	}
	//
	return ""
}
