package xri

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Context symbols accepted at the start of an arc.
const (
	SymbolClass    byte = '+'
	SymbolPerson   byte = '='
	SymbolGroup    byte = '@'
	SymbolReserved byte = '$'
	SymbolLiteral  byte = '*'
	SymbolPersist  byte = '!'
)

const attributePrefix = "$!("

// Arc is a single segment of an identifier.
//
// Value holds a bare name ("first") or, when XRef is set, the text between
// the parentheses of a cross reference ("personal", "+first",
// "https://allfiled.com/"). Attribute marks the attribute singleton
// decoration.
type Arc struct {
	Symbol    byte
	Value     string
	XRef      bool
	Attribute bool
}

// Name returns a bare class arc, e.g. Name("first") is +first.
func Name(name string) Arc {
	return Arc{Symbol: SymbolClass, Value: norm.NFC.String(name)}
}

// Native returns a class cross reference holding a native literal,
// e.g. Native("personal") is +(personal).
func Native(literal string) Arc {
	return Arc{Symbol: SymbolClass, Value: norm.NFC.String(literal), XRef: true}
}

// Ref returns a class cross reference wrapping another arc, e.g.
// Ref(Name("first")) is +(+first).
func Ref(inner Arc) Arc {
	return Arc{Symbol: SymbolClass, Value: inner.String(), XRef: true}
}

// IsZero reports whether a is the zero Arc.
func (a Arc) IsZero() bool {
	return a == Arc{}
}

// String renders the arc in XDI syntax.
func (a Arc) String() string {
	var b strings.Builder
	a.write(&b)
	return b.String()
}

func (a Arc) write(b *strings.Builder) {
	if a.Attribute {
		b.WriteString(attributePrefix)
	}
	b.WriteByte(a.Symbol)
	if a.XRef {
		b.WriteByte('(')
		b.WriteString(a.Value)
		b.WriteByte(')')
	} else {
		b.WriteString(a.Value)
	}
	if a.Attribute {
		b.WriteByte(')')
	}
}

// BaseForm strips the singleton decoration from a. It is idempotent.
func BaseForm(a Arc) Arc {
	a.Attribute = false
	return a
}

// AsEntitySingleton decorates a as a non-terminal hierarchy node.
// Entity singletons carry no surface marker in XDI.
func AsEntitySingleton(a Arc) Arc {
	return BaseForm(a)
}

// AsAttributeSingleton decorates a as a terminal leaf node: $!(a).
func AsAttributeSingleton(a Arc) Arc {
	a.Attribute = true
	return a
}

func isSymbol(c byte) bool {
	switch c {
	case SymbolClass, SymbolPerson, SymbolGroup, SymbolReserved, SymbolLiteral, SymbolPersist:
		return true
	}
	return false
}

// endsName reports whether r terminates a bare name.
func endsName(r rune) bool {
	return r == '(' || r == ')' || (r < utf8.RuneSelf && isSymbol(byte(r)))
}

// badNameRune reports whether r may never appear in a bare name.
func badNameRune(r rune) bool {
	return unicode.IsSpace(r) || r == utf8.RuneError
}

// validValue checks that a renders to text Parse reads back as a.
func validValue(a Arc) error {
	if a.Value == "" {
		if a.XRef {
			return errors.New("empty cross reference")
		}
		return errors.New("empty name")
	}
	if a.XRef {
		depth := 0
		for _, r := range a.Value {
			switch r {
			case '(':
				depth++
			case ')':
				depth--
				if depth < 0 {
					return errors.New("unbalanced parenthesis in cross reference")
				}
			}
		}
		if depth != 0 {
			return errors.New("unbalanced parenthesis in cross reference")
		}
		return nil
	}
	for _, r := range a.Value {
		if endsName(r) || badNameRune(r) {
			return fmt.Errorf("invalid character %q in name", r)
		}
	}
	return nil
}
