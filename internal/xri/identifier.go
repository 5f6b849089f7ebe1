package xri

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is returned when an identifier would have no arcs.
var ErrEmpty = errors.New("identifier has no arcs")

// ErrIndexOutOfRange is returned by At for a position outside the identifier.
var ErrIndexOutOfRange = errors.New("arc index out of range")

// Identifier is an immutable, ordered sequence of arcs.
// The zero Identifier is invalid and renders as the empty string.
type Identifier struct {
	arcs []Arc
}

// New creates an identifier from arcs. At least one arc is required and
// every arc must render to text that Parse reads back unchanged.
func New(arcs ...Arc) (Identifier, error) {
	if len(arcs) == 0 {
		return Identifier{}, ErrEmpty
	}
	for i, a := range arcs {
		if a.IsZero() || !isSymbol(a.Symbol) {
			return Identifier{}, fmt.Errorf("arc %d: invalid arc %q", i, a.String())
		}
		if err := validValue(a); err != nil {
			return Identifier{}, fmt.Errorf("arc %d: %w", i, err)
		}
	}
	return Identifier{arcs: append([]Arc(nil), arcs...)}, nil
}

// MustNew is like New but panics on error. Intended for constants and tests.
func MustNew(arcs ...Arc) Identifier {
	id, err := New(arcs...)
	if err != nil {
		panic(err)
	}
	return id
}

// Len returns the number of arcs.
func (id Identifier) Len() int {
	return len(id.arcs)
}

// IsZero reports whether id has no arcs.
func (id Identifier) IsZero() bool {
	return len(id.arcs) == 0
}

// At returns the arc at position i.
func (id Identifier) At(i int) (Arc, error) {
	if i < 0 || i >= len(id.arcs) {
		return Arc{}, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(id.arcs))
	}
	return id.arcs[i], nil
}

// Arcs returns a copy of the arcs.
func (id Identifier) Arcs() []Arc {
	return append([]Arc(nil), id.arcs...)
}

// Last returns the final arc. It panics on the zero Identifier.
func (id Identifier) Last() Arc {
	return id.arcs[len(id.arcs)-1]
}

// Slice returns the suffix starting at from. The suffix must be non-empty.
func (id Identifier) Slice(from int) (Identifier, error) {
	if from < 0 || from >= len(id.arcs) {
		return Identifier{}, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, from, len(id.arcs))
	}
	return Identifier{arcs: append([]Arc(nil), id.arcs[from:]...)}, nil
}

// Base returns id with the decoration stripped from every arc.
func (id Identifier) Base() Identifier {
	arcs := make([]Arc, len(id.arcs))
	for i, a := range id.arcs {
		arcs[i] = BaseForm(a)
	}
	return Identifier{arcs: arcs}
}

// Equal reports arc-by-arc equality.
func (id Identifier) Equal(other Identifier) bool {
	if len(id.arcs) != len(other.arcs) {
		return false
	}
	for i := range id.arcs {
		if id.arcs[i] != other.arcs[i] {
			return false
		}
	}
	return true
}

// String renders the identifier. Parse(id.String()) is equal to id.
func (id Identifier) String() string {
	var b strings.Builder
	for _, a := range id.arcs {
		a.write(&b)
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identifier) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Concat joins identifiers into one. Zero identifiers contribute nothing;
// the result is zero only if every input is.
func Concat(ids ...Identifier) Identifier {
	var n int
	for _, id := range ids {
		n += len(id.arcs)
	}
	if n == 0 {
		return Identifier{}
	}
	arcs := make([]Arc, 0, n)
	for _, id := range ids {
		arcs = append(arcs, id.arcs...)
	}
	return Identifier{arcs: arcs}
}
