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
package expr

import (
	"fmt"
	"strconv"
)

// Syntax nodes as produced by the parser.  Binding against a table schema
// lowers these into evaluable nodes (see eval.go).
type node interface {
	position() int
}

type intLit struct {
	pos int
	val int64
}

type floatLit struct {
	pos int
	val float64
}

type stringLit struct {
	pos int
	val string
}

type columnRef struct {
	pos  int
	name string
}

type unaryOp struct {
	pos     int
	op      tokenKind
	operand node
}

type binaryOp struct {
	pos int
	op  tokenKind
	lhs node
	rhs node
}

type funcCall struct {
	pos  int
	name string
	args []node
}

func (n *intLit) position() int    { return n.pos }
func (n *floatLit) position() int  { return n.pos }
func (n *stringLit) position() int { return n.pos }
func (n *columnRef) position() int { return n.pos }
func (n *unaryOp) position() int   { return n.pos }
func (n *binaryOp) position() int  { return n.pos }
func (n *funcCall) position() int  { return n.pos }

// parser holds the token stream with one token of lookahead.
type parser struct {
	lexer     *lexer
	lookahead token
}

func newParser(input string) (*parser, error) {
	p := &parser{lexer: newLexer(input)}
	// Prime the lookahead
	if err := p.advance(); err != nil {
		return nil, err
	}
	//
	return p, nil
}

// parse consumes an entire expression, failing on trailing input.
func (p *parser) parse() (node, error) {
	n, err := p.parseOr()
	// Error check
	if err != nil {
		return nil, err
	}
	// Sanity check everything was parsed
	if p.lookahead.kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.lookahead.text)
	}
	//
	return n, nil
}

func (p *parser) parseOr() (node, error) {
	return p.parseBinary(p.parseAnd, tokOr)
}

func (p *parser) parseAnd() (node, error) {
	return p.parseBinary(p.parseComparison, tokAnd)
}

// parseComparison parses a non-associative comparison over additive
// operands.
func (p *parser) parseComparison() (node, error) {
	lhs, err := p.parseAdditive()
	// Error check
	if err != nil {
		return nil, err
	}
	//
	switch p.lookahead.kind {
	case tokEq, tokNe, tokLt, tokLe, tokGt, tokGe:
		var (
			pos = p.lookahead.pos
			op  = p.lookahead.kind
		)
		//
		if err := p.advance(); err != nil {
			return nil, err
		}
		//
		rhs, err := p.parseAdditive()
		// Error check
		if err != nil {
			return nil, err
		}
		//
		return &binaryOp{pos, op, lhs, rhs}, nil
	}
	//
	return lhs, nil
}

func (p *parser) parseAdditive() (node, error) {
	return p.parseBinary(p.parseMultiplicative, tokPlus, tokMinus)
}

func (p *parser) parseMultiplicative() (node, error) {
	return p.parseBinary(p.parseUnary, tokStar, tokSlash)
}

// parseBinary parses a left-associative run of the given operators over the
// next-tighter level.
func (p *parser) parseBinary(operand func() (node, error), ops ...tokenKind) (node, error) {
	lhs, err := operand()
	// Error check
	if err != nil {
		return nil, err
	}
	//
	for matches(p.lookahead.kind, ops) {
		var (
			pos = p.lookahead.pos
			op  = p.lookahead.kind
		)
		//
		if err := p.advance(); err != nil {
			return nil, err
		}
		//
		rhs, err := operand()
		// Error check
		if err != nil {
			return nil, err
		}
		//
		lhs = &binaryOp{pos, op, lhs, rhs}
	}
	//
	return lhs, nil
}

func (p *parser) parseUnary() (node, error) {
	switch p.lookahead.kind {
	case tokMinus, tokNot:
		var (
			pos = p.lookahead.pos
			op  = p.lookahead.kind
		)
		//
		if err := p.advance(); err != nil {
			return nil, err
		}
		//
		operand, err := p.parseUnary()
		// Error check
		if err != nil {
			return nil, err
		}
		//
		return &unaryOp{pos, op, operand}, nil
	}
	//
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.lookahead
	//
	switch tok.kind {
	case tokInt:
		val, err := strconv.ParseInt(tok.text, 10, 64)
		// Error check
		if err != nil {
			return nil, p.errorf("invalid integer literal %q", tok.text)
		}
		//
		return &intLit{tok.pos, val}, p.advance()
	case tokFloat:
		val, err := strconv.ParseFloat(tok.text, 64)
		// Error check
		if err != nil {
			return nil, p.errorf("invalid numeric literal %q", tok.text)
		}
		//
		return &floatLit{tok.pos, val}, p.advance()
	case tokString:
		return &stringLit{tok.pos, tok.text}, p.advance()
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		//
		n, err := p.parseOr()
		// Error check
		if err != nil {
			return nil, err
		}
		//
		if p.lookahead.kind != tokRParen {
			return nil, p.errorf("expected \")\"")
		}
		//
		return n, p.advance()
	case tokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		// A following parenthesis makes this a function call.
		if p.lookahead.kind == tokLParen {
			return p.parseCall(tok)
		}
		//
		return &columnRef{tok.pos, tok.text}, nil
	}
	//
	return nil, p.errorf("unexpected %q", tok.text)
}

// parseCall parses the argument list of a function call whose name has
// already been consumed.
func (p *parser) parseCall(name token) (node, error) {
	// Consume "("
	if err := p.advance(); err != nil {
		return nil, err
	}
	//
	var args []node
	//
	for p.lookahead.kind != tokRParen {
		if len(args) > 0 {
			if p.lookahead.kind != tokComma {
				return nil, p.errorf("expected \",\" or \")\"")
			}
			//
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		//
		arg, err := p.parseOr()
		// Error check
		if err != nil {
			return nil, err
		}
		//
		args = append(args, arg)
	}
	// Consume ")"
	return &funcCall{name.pos, name.text, args}, p.advance()
}

// advance moves the lookahead forward by one token.
func (p *parser) advance() error {
	tok, err := p.lexer.next()
	// Error check
	if err != nil {
		return err
	}
	//
	p.lookahead = tok
	//
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{p.lookahead.pos, fmt.Sprintf(format, args...)}
}

func matches(kind tokenKind, ops []tokenKind) bool {
	for _, op := range ops {
		if kind == op {
			return true
		}
	}
	//
	return false
}
