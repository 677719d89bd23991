// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdl parses the pin list notation used to describe circuit
// interfaces, like "a[4], b, clk".
//
package hdl

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Type is a token type.
//
type Type int

// Tokens
const (
	EOF Type = iota
	Raw
	Ident
	BracketOpen
	BracketClose
	Comma
	Int
)

func (t Type) String() string {
	switch t {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case BracketOpen:
		return "'['"
	case BracketClose:
		return "']'"
	case Comma:
		return "','"
	case Int:
		return "integer"
	}
	return "character"
}

// Item is a lexed token.
//
type Item struct {
	Type  Type
	Pos   int
	Value interface{}
}

// Lexer splits a pin list into tokens.
//
type Lexer struct {
	input string
	pos   int
}

// NewLexer returns a new lexer for the given input.
//
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func (l *Lexer) next() (rune, int) {
	if l.pos >= len(l.input) {
		return -1, l.pos
	}
	r, sz := utf8.DecodeRuneInString(l.input[l.pos:])
	p := l.pos
	l.pos += sz
	return r, p
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// Lex returns the next token. Once the end of input is reached, it only
// returns EOF items.
//
func (l *Lexer) Lex() Item {
	r, pos := l.next()
	for unicode.IsSpace(r) {
		r, pos = l.next()
	}
	switch {
	case r < 0:
		return Item{EOF, pos, nil}
	case r == '[':
		return Item{BracketOpen, pos, "["}
	case r == ']':
		return Item{BracketClose, pos, "]"}
	case r == ',':
		return Item{Comma, pos, ","}
	case '0' <= r && r <= '9':
		i := int(r - '0')
		for r = l.peek(); '0' <= r && r <= '9'; r = l.peek() {
			i = i*10 + int(r-'0')
			l.next()
		}
		return Item{Int, pos, i}
	case unicode.IsLetter(r) || r == '_':
		for r = l.peek(); unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'; r = l.peek() {
			l.next()
		}
		return Item{Ident, pos, l.input[pos:l.pos]}
	}
	return Item{Raw, pos, r}
}

// Pin is a pin name and its width.
//
type Pin struct {
	Name string
	Bits int
	Pos  int
}

// ParseIO parses a comma separated list of pin names. Each pin name may be
// followed by a bus width in brackets; the default width is 1. For example:
//
//	ParseIO("in[2], sel") // returns []Pin{{"in", 2, 0}, {"sel", 1, 7}}
//
// Duplicate pin names are reported as errors.
//
func ParseIO(names string) ([]Pin, error) {
	var out []Pin
	seen := make(map[string]bool)
	l := NewLexer(names)

	i := l.Lex()
	if i.Type == EOF {
		return nil, nil
	}
	for {
		if i.Type != Ident {
			return nil, parseError(names, i, "expected pin name")
		}
		p := Pin{Name: i.Value.(string), Bits: 1, Pos: i.Pos}
		if seen[p.Name] {
			return nil, parseError(names, i, "duplicate pin name "+p.Name)
		}
		seen[p.Name] = true
		i = l.Lex()
		if i.Type == BracketOpen {
			i = l.Lex()
			if i.Type != Int {
				return nil, parseError(names, i, "missing bus size")
			}
			if p.Bits = i.Value.(int); p.Bits == 0 {
				return nil, parseError(names, i, "zero bus size")
			}
			if i = l.Lex(); i.Type != BracketClose {
				return nil, parseError(names, i, "missing close bracket")
			}
			i = l.Lex()
		}
		out = append(out, p)
		switch i.Type {
		case EOF:
			return out, nil
		case Comma:
			i = l.Lex()
		default:
			return nil, parseError(names, i, "expected bus size specification or comma")
		}
	}
}

func parseError(in string, i Item, msg string) error {
	what := i.Type.String()
	if i.Type == Raw {
		what = strconv.QuoteRune(i.Value.(rune))
	}
	return errors.Errorf("in %q at pos %d: %s, got %s", in, i.Pos+1, msg, what)
}
