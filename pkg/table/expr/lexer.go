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
	"strings"
	"unicode"
)

// SyntaxError reports a malformed expression together with the rune offset
// at which scanning or parsing failed.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokComma
	tokEq
	tokNe
	tokLt
	tokLe
	tokGt
	tokGe
	tokAnd
	tokOr
	tokNot
)

// token associates a piece of information with a given range of characters
// in the string being scanned.
type token struct {
	kind tokenKind
	text string
	pos  int
}

// lexer tokenises an expression string, tracking its position for error
// reporting.
type lexer struct {
	runes []rune
	index int
}

func newLexer(input string) *lexer {
	return &lexer{runes: []rune(input)}
}

// next scans and returns the next token, consuming it.
func (l *lexer) next() (token, error) {
	l.skipWhitespace()
	//
	if l.index >= len(l.runes) {
		return token{kind: tokEOF, pos: l.index}, nil
	}
	//
	var (
		pos = l.index
		r   = l.runes[l.index]
	)
	//
	switch {
	case r == '(':
		l.index++
		return token{tokLParen, "(", pos}, nil
	case r == ')':
		l.index++
		return token{tokRParen, ")", pos}, nil
	case r == ',':
		l.index++
		return token{tokComma, ",", pos}, nil
	case r == '+':
		l.index++
		return token{tokPlus, "+", pos}, nil
	case r == '-':
		l.index++
		return token{tokMinus, "-", pos}, nil
	case r == '*':
		l.index++
		return token{tokStar, "*", pos}, nil
	case r == '/':
		l.index++
		return token{tokSlash, "/", pos}, nil
	case r == '=':
		// Both "=" and "==" mean equality.
		l.index++
		l.accept('=')
		//
		return token{tokEq, "==", pos}, nil
	case r == '!':
		l.index++
		if l.accept('=') {
			return token{tokNe, "!=", pos}, nil
		}
		//
		return token{tokNot, "!", pos}, nil
	case r == '<':
		l.index++
		if l.accept('=') {
			return token{tokLe, "<=", pos}, nil
		}
		//
		return token{tokLt, "<", pos}, nil
	case r == '>':
		l.index++
		if l.accept('=') {
			return token{tokGe, ">=", pos}, nil
		}
		//
		return token{tokGt, ">", pos}, nil
	case r == '&':
		l.index++
		if l.accept('&') {
			return token{tokAnd, "&&", pos}, nil
		}
		//
		return token{}, &SyntaxError{pos, "expected \"&&\""}
	case r == '|':
		l.index++
		if l.accept('|') {
			return token{tokOr, "||", pos}, nil
		}
		//
		return token{}, &SyntaxError{pos, "expected \"||\""}
	case r == '"' || r == '\'':
		return l.scanString(r)
	case unicode.IsDigit(r):
		return l.scanNumber()
	case unicode.IsLetter(r) || r == '_':
		return l.scanIdent()
	}
	//
	return token{}, &SyntaxError{pos, fmt.Sprintf("unexpected character %q", r)}
}

// accept consumes the next rune iff it matches.
func (l *lexer) accept(r rune) bool {
	if l.index < len(l.runes) && l.runes[l.index] == r {
		l.index++
		return true
	}
	//
	return false
}

func (l *lexer) skipWhitespace() {
	for l.index < len(l.runes) && unicode.IsSpace(l.runes[l.index]) {
		l.index++
	}
}

// scanString consumes a quoted literal, where either quote character may
// delimit it.
func (l *lexer) scanString(quote rune) (token, error) {
	var (
		pos     = l.index
		builder strings.Builder
	)
	// Consume opening quote
	l.index++
	//
	for l.index < len(l.runes) {
		r := l.runes[l.index]
		l.index++
		//
		if r == quote {
			return token{tokString, builder.String(), pos}, nil
		}
		//
		builder.WriteRune(r)
	}
	//
	return token{}, &SyntaxError{pos, "unterminated string literal"}
}

// scanNumber consumes an integer or decimal literal, classifying it by the
// presence of a fractional part or exponent.
func (l *lexer) scanNumber() (token, error) {
	var (
		pos     = l.index
		isFloat = false
	)
	//
	for l.index < len(l.runes) {
		r := l.runes[l.index]
		//
		if unicode.IsDigit(r) {
			l.index++
		} else if r == '.' || r == 'e' || r == 'E' {
			isFloat = true
			l.index++
			// Allow a sign directly after an exponent.
			if (r == 'e' || r == 'E') && l.index < len(l.runes) &&
				(l.runes[l.index] == '+' || l.runes[l.index] == '-') {
				l.index++
			}
		} else {
			break
		}
	}
	//
	text := string(l.runes[pos:l.index])
	//
	if isFloat {
		return token{tokFloat, text, pos}, nil
	}
	//
	return token{tokInt, text, pos}, nil
}

// scanIdent consumes a column or function name.
func (l *lexer) scanIdent() (token, error) {
	pos := l.index
	//
	for l.index < len(l.runes) {
		r := l.runes[l.index]
		//
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			l.index++
		} else {
			break
		}
	}
	//
	return token{tokIdent, string(l.runes[pos:l.index]), pos}, nil
}
