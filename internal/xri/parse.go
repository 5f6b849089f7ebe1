package xri

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ParseError reports malformed identifier text.
type ParseError struct {
	Input   string
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: offset %d: %s", e.Input, e.Offset, e.Message)
}

// Parse reads an identifier in XDI surface syntax.
//
// Grammar:
//
//	xri    = arc { arc }
//	arc    = "$!(" plain ")" | plain
//	plain  = symbol ( name | "(" balanced ")" )
//	symbol = "+" | "=" | "@" | "$" | "*" | "!"
func Parse(s string) (Identifier, error) {
	p := &parser{input: s}
	if s == "" {
		return Identifier{}, p.fail("empty identifier")
	}
	var arcs []Arc
	for p.pos < len(s) {
		a, err := p.arc()
		if err != nil {
			return Identifier{}, err
		}
		arcs = append(arcs, a)
	}
	return Identifier{arcs: arcs}, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Identifier {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// ParseArc reads exactly one arc.
func ParseArc(s string) (Arc, error) {
	id, err := Parse(s)
	if err != nil {
		return Arc{}, err
	}
	if id.Len() != 1 {
		return Arc{}, &ParseError{Input: s, Offset: 0, Message: fmt.Sprintf("expected one arc, found %d", id.Len())}
	}
	return id.arcs[0], nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) fail(format string, args ...any) *ParseError {
	return &ParseError{Input: p.input, Offset: p.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) arc() (Arc, error) {
	if strings.HasPrefix(p.input[p.pos:], attributePrefix) {
		p.pos += len(attributePrefix)
		if strings.HasPrefix(p.input[p.pos:], attributePrefix) {
			return Arc{}, p.fail("nested attribute singleton")
		}
		a, err := p.plain()
		if err != nil {
			return Arc{}, err
		}
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return Arc{}, p.fail("unterminated attribute singleton")
		}
		p.pos++
		a.Attribute = true
		return a, nil
	}
	return p.plain()
}

func (p *parser) plain() (Arc, error) {
	if p.pos >= len(p.input) {
		return Arc{}, p.fail("expected context symbol, found end of input")
	}
	sym := p.input[p.pos]
	if !isSymbol(sym) {
		return Arc{}, p.fail("expected context symbol, found %q", sym)
	}
	p.pos++

	if p.pos < len(p.input) && p.input[p.pos] == '(' {
		ref, err := p.xref()
		if err != nil {
			return Arc{}, err
		}
		return Arc{Symbol: sym, Value: norm.NFC.String(ref), XRef: true}, nil
	}

	start := p.pos
	for p.pos < len(p.input) {
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if endsName(r) {
			break
		}
		if badNameRune(r) {
			return Arc{}, p.fail("invalid character %q in name", r)
		}
		p.pos += size
	}
	if p.pos == start {
		return Arc{}, p.fail("empty name after %q", sym)
	}
	return Arc{Symbol: sym, Value: norm.NFC.String(p.input[start:p.pos])}, nil
}

// xref consumes a balanced parenthesised section and returns its content.
func (p *parser) xref() (string, error) {
	open := p.pos
	depth := 0
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				content := p.input[open+1 : p.pos]
				p.pos++
				if content == "" {
					return "", &ParseError{Input: p.input, Offset: open, Message: "empty cross reference"}
				}
				return content, nil
			}
		}
		p.pos++
	}
	return "", &ParseError{Input: p.input, Offset: open, Message: "unbalanced parenthesis"}
}
