// Copyright Surveykit Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package expr compiles and evaluates the expression surface used by row
// filters and derived columns: column references, literals, arithmetic,
// comparisons, boolean connectives and a small set of named functions
// (mean, stddev, float, int, str, runif).
//
// Expressions are compiled once, bound against a table's schema once (which
// is where unknown column names surface), and then evaluated per row.
// Missing values propagate through arithmetic and make comparisons false;
// they never raise.  Division by zero yields a non-finite float, matching
// floating point semantics.
package expr

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/surveykit/tablepipe/pkg/table"
	"gonum.org/v1/gonum/stat"
)

// TypeError reports an expression whose operand types do not fit an
// operator or function, discovered during binding.
type TypeError struct {
	Pos int
	Msg string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error at offset %d: %s", e.Pos, e.Msg)
}

// etype is the expression-level type of a bound node.  Categorical columns
// surface as their label text, hence there is no categorical type here.
type etype uint8

const (
	tInt etype = iota
	tFloat
	tString
	tBool
)

func (t etype) String() string {
	switch t {
	case tInt:
		return "int"
	case tFloat:
		return "float"
	case tString:
		return "string"
	default:
		return "bool"
	}
}

func (t etype) numeric() bool {
	return t == tInt || t == tFloat
}

// value is one evaluated cell.  Comparisons yield non-missing booleans even
// over missing operands; everything else propagates missingness.
type value struct {
	typ     etype
	missing bool
	b       bool
	i       int64
	f       float64
	s       string
}

func missingOf(t etype) value {
	return value{typ: t, missing: true}
}

// widen provides the float view of a numeric value.
func (v value) widen() float64 {
	if v.typ == tInt {
		return float64(v.i)
	}
	//
	return v.f
}

// enode is an evaluable node produced by binding a syntax node against a
// table schema.
type enode interface {
	etype() etype
	eval(row int) value
}

// Program is a compiled but unbound expression.
type Program struct {
	src  string
	root node
}

// Compile parses an expression into a Program, or fails with a SyntaxError.
func Compile(src string) (*Program, error) {
	p, err := newParser(src)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	root, err := p.parse()
	// Error check
	if err != nil {
		return nil, err
	}
	//
	return &Program{src, root}, nil
}

// Source returns the text this program was compiled from.
func (p *Program) Source() string {
	return p.src
}

// Bound is a program bound to a specific table's schema, ready for per-row
// evaluation.  Aggregate calls (mean, stddev) are evaluated once during
// binding and enter the tree as constants.
type Bound struct {
	root enode
	rng  *rand.Rand
}

// Bind resolves this program's column references against the given table,
// failing with table.UnknownColumnError for absent names or a TypeError for
// operand mismatches.
func (p *Program) Bind(t *table.Table) (*Bound, error) {
	b := &Bound{rng: rand.New(rand.NewSource(rand.Int63()))}
	//
	root, err := b.bind(p.root, t)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	b.root = root
	//
	return b, nil
}

// Seed makes any runif calls in this bound expression deterministic.
func (b *Bound) Seed(seed int64) {
	b.rng.Seed(seed)
}

// Predicate views this bound expression as a row filter, which requires a
// boolean result type.
func (b *Bound) Predicate() (table.Predicate, error) {
	if b.root.etype() != tBool {
		return nil, fmt.Errorf("filter expression must be a comparison, got %s", b.root.etype())
	}
	//
	return table.PredicateFunc(func(row int) (bool, error) {
		return b.root.eval(row).b, nil
	}), nil
}

// Deriver views this bound expression as a column derivation, which
// requires a scalar (non-boolean) result type.
func (b *Bound) Deriver() (table.Deriver, error) {
	if b.root.etype() == tBool {
		return nil, fmt.Errorf("derived column expression must be a value, not a comparison")
	}
	//
	return &deriver{b.root}, nil
}

type deriver struct {
	root enode
}

func (d *deriver) Kind() table.Kind {
	switch d.root.etype() {
	case tInt:
		return table.IntKind
	case tFloat:
		return table.FloatKind
	default:
		return table.StringKind
	}
}

func (d *deriver) At(row int) (table.Value, error) {
	v := d.root.eval(row)
	//
	if v.missing {
		return table.MissingValue(d.Kind()), nil
	}
	//
	switch v.typ {
	case tInt:
		return table.IntValue(v.i), nil
	case tFloat:
		return table.FloatValue(v.f), nil
	default:
		return table.StringValue(v.s), nil
	}
}

// bind lowers a syntax node into an evaluable node, resolving names and
// checking operand types.
func (b *Bound) bind(n node, t *table.Table) (enode, error) {
	switch n := n.(type) {
	case *intLit:
		return &elit{value{typ: tInt, i: n.val}}, nil
	case *floatLit:
		return &elit{value{typ: tFloat, f: n.val}}, nil
	case *stringLit:
		return &elit{value{typ: tString, s: n.val}}, nil
	case *columnRef:
		col, err := t.Column(n.name)
		// Error check
		if err != nil {
			return nil, err
		}
		//
		return &ecol{col}, nil
	case *unaryOp:
		return b.bindUnary(n, t)
	case *binaryOp:
		return b.bindBinary(n, t)
	case *funcCall:
		return b.bindCall(n, t)
	}
	//
	return nil, fmt.Errorf("unknown expression node %T", n)
}

func (b *Bound) bindUnary(n *unaryOp, t *table.Table) (enode, error) {
	operand, err := b.bind(n.operand, t)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	switch n.op {
	case tokMinus:
		if !operand.etype().numeric() {
			return nil, &TypeError{n.pos, fmt.Sprintf("cannot negate %s", operand.etype())}
		}
		//
		return &eneg{operand}, nil
	default:
		if operand.etype() != tBool {
			return nil, &TypeError{n.pos, fmt.Sprintf("cannot apply \"!\" to %s", operand.etype())}
		}
		//
		return &enot{operand}, nil
	}
}

func (b *Bound) bindBinary(n *binaryOp, t *table.Table) (enode, error) {
	lhs, err := b.bind(n.lhs, t)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	rhs, err := b.bind(n.rhs, t)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	switch n.op {
	case tokPlus, tokMinus, tokStar, tokSlash:
		if !lhs.etype().numeric() || !rhs.etype().numeric() {
			return nil, &TypeError{n.pos, fmt.Sprintf("cannot apply arithmetic to %s and %s", lhs.etype(), rhs.etype())}
		}
		// Division is always performed in floats, so division by zero
		// propagates a non-finite value rather than failing.
		typ := tFloat
		if n.op != tokSlash && lhs.etype() == tInt && rhs.etype() == tInt {
			typ = tInt
		}
		//
		return &earith{n.op, typ, lhs, rhs}, nil
	case tokAnd, tokOr:
		if lhs.etype() != tBool || rhs.etype() != tBool {
			return nil, &TypeError{n.pos, "boolean connectives require boolean operands"}
		}
		//
		return &elogic{n.op, lhs, rhs}, nil
	default:
		numeric := lhs.etype().numeric() && rhs.etype().numeric()
		textual := lhs.etype() == tString && rhs.etype() == tString
		//
		if !numeric && !textual {
			return nil, &TypeError{n.pos, fmt.Sprintf("cannot compare %s with %s", lhs.etype(), rhs.etype())}
		}
		//
		return &ecompare{n.op, lhs, rhs}, nil
	}
}

func (b *Bound) bindCall(n *funcCall, t *table.Table) (enode, error) {
	switch n.name {
	case "mean", "stddev":
		return b.bindAggregate(n, t)
	case "float", "int", "str":
		if len(n.args) != 1 {
			return nil, &TypeError{n.pos, n.name + " takes exactly one argument"}
		}
		//
		arg, err := b.bind(n.args[0], t)
		// Error check
		if err != nil {
			return nil, err
		}
		//
		if arg.etype() == tBool {
			return nil, &TypeError{n.pos, "cannot cast a comparison"}
		}
		//
		return &ecast{n.name, arg}, nil
	case "runif":
		if len(n.args) != 2 {
			return nil, &TypeError{n.pos, "runif takes a lower and an upper bound"}
		}
		//
		bounds := [2]float64{}
		//
		for i, arg := range n.args {
			bound, err := b.bind(arg, t)
			// Error check
			if err != nil {
				return nil, err
			}
			//
			lit, ok := bound.(*elit)
			if !ok || !lit.val.typ.numeric() {
				return nil, &TypeError{n.pos, "runif bounds must be numeric constants"}
			}
			//
			bounds[i] = lit.val.widen()
		}
		//
		return &erand{bounds[0], bounds[1], b.rng}, nil
	}
	//
	return nil, &TypeError{n.pos, fmt.Sprintf("unknown function %q", n.name)}
}

// bindAggregate evaluates a whole-column statistic once, entering the tree
// as a constant.  Below the defined threshold (one value for mean, two for
// stddev) the constant is the missing marker.
func (b *Bound) bindAggregate(n *funcCall, t *table.Table) (enode, error) {
	if len(n.args) != 1 {
		return nil, &TypeError{n.pos, n.name + " takes exactly one column"}
	}
	//
	ref, ok := n.args[0].(*columnRef)
	if !ok {
		return nil, &TypeError{n.pos, n.name + " takes a column name"}
	}
	//
	col, err := t.Column(ref.name)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	if !col.Kind().IsNumeric() {
		return nil, &TypeError{n.pos, fmt.Sprintf("%s requires a numeric column, but %q is %s", n.name, ref.name, col.Kind())}
	}
	//
	var values []float64
	//
	for row := 0; row < col.Len(); row++ {
		if f, ok := col.Float64(row); ok {
			values = append(values, f)
		}
	}
	//
	switch {
	case n.name == "mean" && len(values) >= 1:
		return &elit{value{typ: tFloat, f: stat.Mean(values, nil)}}, nil
	case n.name == "stddev" && len(values) >= 2:
		return &elit{value{typ: tFloat, f: stat.StdDev(values, nil)}}, nil
	}
	//
	return &elit{missingOf(tFloat)}, nil
}

// ==========================================================================
// Evaluable nodes
// ==========================================================================

type elit struct {
	val value
}

func (e *elit) etype() etype       { return e.val.typ }
func (e *elit) eval(row int) value { return e.val }

type ecol struct {
	col *table.Column
}

func (e *ecol) etype() etype {
	switch e.col.Kind() {
	case table.IntKind:
		return tInt
	case table.FloatKind:
		return tFloat
	default:
		return tString
	}
}

func (e *ecol) eval(row int) value {
	v := e.col.Value(row)
	//
	if v.Missing {
		return missingOf(e.etype())
	}
	//
	switch v.Kind {
	case table.IntKind:
		return value{typ: tInt, i: v.Int}
	case table.FloatKind:
		return value{typ: tFloat, f: v.Float}
	default:
		return value{typ: tString, s: v.Text()}
	}
}

type eneg struct {
	operand enode
}

func (e *eneg) etype() etype { return e.operand.etype() }

func (e *eneg) eval(row int) value {
	v := e.operand.eval(row)
	//
	if v.missing {
		return v
	} else if v.typ == tInt {
		return value{typ: tInt, i: -v.i}
	}
	//
	return value{typ: tFloat, f: -v.f}
}

type enot struct {
	operand enode
}

func (e *enot) etype() etype { return tBool }

func (e *enot) eval(row int) value {
	return value{typ: tBool, b: !e.operand.eval(row).b}
}

type earith struct {
	op  tokenKind
	typ etype
	lhs enode
	rhs enode
}

func (e *earith) etype() etype { return e.typ }

func (e *earith) eval(row int) value {
	var (
		l = e.lhs.eval(row)
		r = e.rhs.eval(row)
	)
	// Missing operands propagate.
	if l.missing || r.missing {
		return missingOf(e.typ)
	}
	//
	if e.typ == tInt {
		switch e.op {
		case tokPlus:
			return value{typ: tInt, i: l.i + r.i}
		case tokMinus:
			return value{typ: tInt, i: l.i - r.i}
		default:
			return value{typ: tInt, i: l.i * r.i}
		}
	}
	//
	var (
		lf = l.widen()
		rf = r.widen()
		f  float64
	)
	//
	switch e.op {
	case tokPlus:
		f = lf + rf
	case tokMinus:
		f = lf - rf
	case tokStar:
		f = lf * rf
	default:
		f = lf / rf
	}
	//
	return value{typ: tFloat, f: f}
}

type ecompare struct {
	op  tokenKind
	lhs enode
	rhs enode
}

func (e *ecompare) etype() etype { return tBool }

func (e *ecompare) eval(row int) value {
	var (
		l = e.lhs.eval(row)
		r = e.rhs.eval(row)
	)
	// A comparison over a missing operand is false, never an error.
	if l.missing || r.missing {
		return value{typ: tBool}
	}
	//
	var cmp int
	//
	if l.typ == tString {
		cmp = strings.Compare(l.s, r.s)
	} else {
		lf, rf := l.widen(), r.widen()
		//
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	}
	//
	var b bool
	//
	switch e.op {
	case tokEq:
		b = cmp == 0
	case tokNe:
		b = cmp != 0
	case tokLt:
		b = cmp < 0
	case tokLe:
		b = cmp <= 0
	case tokGt:
		b = cmp > 0
	default:
		b = cmp >= 0
	}
	//
	return value{typ: tBool, b: b}
}

type elogic struct {
	op  tokenKind
	lhs enode
	rhs enode
}

func (e *elogic) etype() etype { return tBool }

func (e *elogic) eval(row int) value {
	l := e.lhs.eval(row).b
	//
	if e.op == tokAnd {
		return value{typ: tBool, b: l && e.rhs.eval(row).b}
	}
	//
	return value{typ: tBool, b: l || e.rhs.eval(row).b}
}

type ecast struct {
	name string
	arg  enode
}

func (e *ecast) etype() etype {
	switch e.name {
	case "float":
		return tFloat
	case "int":
		return tInt
	default:
		return tString
	}
}

func (e *ecast) eval(row int) value {
	v := e.arg.eval(row)
	//
	if v.missing {
		return missingOf(e.etype())
	}
	//
	switch e.name {
	case "float":
		if v.typ == tString {
			f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
			// Unparseable text degrades to missing, not an error.
			if err != nil {
				return missingOf(tFloat)
			}
			//
			return value{typ: tFloat, f: f}
		}
		//
		return value{typ: tFloat, f: v.widen()}
	case "int":
		switch v.typ {
		case tInt:
			return v
		case tFloat:
			if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
				return missingOf(tInt)
			}
			//
			return value{typ: tInt, i: int64(v.f)}
		default:
			i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
			// Unparseable text degrades to missing, not an error.
			if err != nil {
				return missingOf(tInt)
			}
			//
			return value{typ: tInt, i: i}
		}
	default:
		switch v.typ {
		case tInt:
			return value{typ: tString, s: strconv.FormatInt(v.i, 10)}
		case tFloat:
			return value{typ: tString, s: strconv.FormatFloat(v.f, 'g', -1, 64)}
		default:
			return v
		}
	}
}

type erand struct {
	lo  float64
	hi  float64
	rng *rand.Rand
}

func (e *erand) etype() etype { return tFloat }

func (e *erand) eval(row int) value {
	return value{typ: tFloat, f: e.lo + e.rng.Float64()*(e.hi-e.lo)}
}
