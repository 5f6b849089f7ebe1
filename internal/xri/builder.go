package xri

import (
	"errors"
	"fmt"
)

// ErrAfterAttribute is returned when an arc follows a terminal attribute arc.
var ErrAfterAttribute = errors.New("arc follows terminal attribute singleton")

// Builder assembles an identifier arc by arc, validating as it goes.
// The first error sticks; later Append calls are ignored.
type Builder struct {
	arcs  []Arc
	arity int
	err   error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithArity makes Build fail unless exactly n arcs were appended.
func (b *Builder) WithArity(n int) *Builder {
	b.arity = n
	return b
}

// Append adds arcs in order.
func (b *Builder) Append(arcs ...Arc) *Builder {
	for _, a := range arcs {
		if b.err != nil {
			return b
		}
		if a.IsZero() || !isSymbol(a.Symbol) {
			b.err = fmt.Errorf("arc %d: invalid arc %q", len(b.arcs), a.String())
			return b
		}
		if err := validValue(a); err != nil {
			b.err = fmt.Errorf("arc %d: %w", len(b.arcs), err)
			return b
		}
		if n := len(b.arcs); n > 0 && b.arcs[n-1].Attribute {
			b.err = fmt.Errorf("arc %d: %w", n, ErrAfterAttribute)
			return b
		}
		if b.arity > 0 && len(b.arcs) == b.arity {
			b.err = fmt.Errorf("arity %d exceeded", b.arity)
			return b
		}
		b.arcs = append(b.arcs, a)
	}
	return b
}

// AppendIdentifier adds every arc of id.
func (b *Builder) AppendIdentifier(id Identifier) *Builder {
	return b.Append(id.arcs...)
}

// Build returns the identifier or the first error encountered.
func (b *Builder) Build() (Identifier, error) {
	if b.err != nil {
		return Identifier{}, b.err
	}
	if len(b.arcs) == 0 {
		return Identifier{}, ErrEmpty
	}
	if b.arity > 0 && len(b.arcs) != b.arity {
		return Identifier{}, fmt.Errorf("expected %d arcs, found %d", b.arity, len(b.arcs))
	}
	return Identifier{arcs: append([]Arc(nil), b.arcs...)}, nil
}

// Positional renders arcs with the positional decoration rule: every arc
// except the last becomes an entity singleton, the last an attribute
// singleton. Every conversion in the repository goes through here.
func Positional(arcs []Arc) (Identifier, error) {
	b := NewBuilder()
	for i, a := range arcs {
		if i+1 < len(arcs) {
			b.Append(AsEntitySingleton(a))
		} else {
			b.Append(AsAttributeSingleton(a))
		}
	}
	return b.Build()
}
