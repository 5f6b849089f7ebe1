package dictionary

import (
	"fmt"
	"strings"

	"github.com/roach88/allfiledmap/internal/compiler"
	"github.com/roach88/allfiledmap/internal/xri"
)

// Index is the read-only dictionary used by the mapper.
type Index struct {
	graph     *Graph
	namespace xri.Arc
	version   string
	hash      string
}

// Build validates def and constructs its index.
//
// For every equivalence the vendor node (namespace root + dictionary arcs
// of the triple) gets a canonical-of edge to the canonical node. Every
// rewrite adds a canonical-of edge between two dictionary nodes. Once the
// edges are in place, both the declared canonical node and the node its
// canonical walk ends at list the vendor node as an equivalent, in
// declaration order, so a rewritten canonical maps back to its vendor.
func Build(def *compiler.Definition) (*Index, error) {
	if def == nil {
		return nil, &ConfigError{Code: CodeInvalidDefinition, Message: "definition is nil"}
	}
	if errs := compiler.Validate(def); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, &ConfigError{
			Code:    CodeInvalidDefinition,
			Message: strings.Join(msgs, "; "),
		}
	}

	hash, err := def.Hash()
	if err != nil {
		return nil, &ConfigError{Code: CodeInvalidDefinition, Message: "hash failed", Err: err}
	}

	namespace := def.Namespace.Last()
	g := NewGraph()

	type pair struct{ vendor, canonical *Node }
	pairs := make([]pair, 0, len(def.Equivalences))
	for _, eq := range def.Equivalences {
		vendor := g.Ensure(xri.Concat(def.Namespace, dictionaryPath(eq.Vendor)))
		canonical := g.Ensure(dictionaryPath(eq.Canonical))
		if err := g.SetCanonical(vendor, canonical); err != nil {
			return nil, err
		}
		pairs = append(pairs, pair{vendor, canonical})
	}

	for _, rw := range def.Rewrites {
		from := g.Ensure(dictionaryPath(rw.From))
		to := g.Ensure(dictionaryPath(rw.To))
		if err := g.SetCanonical(from, to); err != nil {
			return nil, err
		}
	}

	ix, err := NewIndex(g, namespace)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		g.AddEquivalent(p.canonical, p.vendor)
		// NewIndex has already walked every chain, so this cannot fail.
		resolved, err := ix.CanonicalOf(p.canonical)
		if err != nil {
			return nil, err
		}
		g.AddEquivalent(resolved, p.vendor)
	}
	ix.version = def.Version
	ix.hash = hash
	return ix, nil
}

// NewIndex freezes an existing graph into an index after checking that
// every canonical walk terminates and every equivalent lies under the
// namespace root. The caller must not mutate g afterwards.
func NewIndex(g *Graph, namespace xri.Arc) (*Index, error) {
	ix := &Index{graph: g, namespace: namespace}

	var verr error
	g.Walk(func(n *Node) bool {
		if n.canonical != nil {
			if _, err := ix.CanonicalOf(n); err != nil {
				verr = err
				return false
			}
		}
		for _, eq := range n.equivalents {
			if !ix.InNamespace(eq) {
				verr = &ConfigError{
					Code:    CodeForeignEquivalent,
					Message: "equivalent " + eq.Path().String() + " is outside the vendor namespace",
					Path:    n.Path().String(),
				}
				return false
			}
		}
		return true
	})
	if verr != nil {
		return nil, verr
	}
	return ix, nil
}

// dictionaryPath maps every arc of an instance identifier to dictionary form.
func dictionaryPath(id xri.Identifier) xri.Identifier {
	arcs := id.Arcs()
	for i, a := range arcs {
		arcs[i] = NativeToDictionary(a)
	}
	return xri.MustNew(arcs...)
}

// Namespace returns the vendor namespace root arc.
func (ix *Index) Namespace() xri.Arc {
	return ix.namespace
}

// NamespacePath returns the namespace root as a one-arc identifier.
func (ix *Index) NamespacePath() xri.Identifier {
	return xri.MustNew(ix.namespace)
}

// Version returns the definition version, empty for hand-built indexes.
func (ix *Index) Version() string {
	return ix.version
}

// Hash returns the definition content hash, empty for hand-built indexes.
func (ix *Index) Hash() string {
	return ix.hash
}

// Len returns the number of nodes in the graph.
func (ix *Index) Len() int {
	return ix.graph.Len()
}

// NativeToDictionary translates an instance arc to dictionary form.
func (ix *Index) NativeToDictionary(a xri.Arc) xri.Arc {
	return NativeToDictionary(a)
}

// DictionaryToNative translates a dictionary arc back to instance form.
func (ix *Index) DictionaryToNative(a xri.Arc) xri.Arc {
	return DictionaryToNative(a)
}

// NativeIdentifier returns the vendor display name of an instance arc.
func (ix *Index) NativeIdentifier(a xri.Arc) string {
	return NativeIdentifier(a)
}

// FindNode looks up the node at exactly path.
func (ix *Index) FindNode(path xri.Identifier) (*Node, bool) {
	n := ix.graph.FindNode(path)
	return n, n != nil
}

// InNamespace reports whether n lies under the vendor namespace root.
func (ix *Index) InNamespace(n *Node) bool {
	var top *Node
	for cur := n; cur != nil && cur.parent != nil; cur = cur.parent {
		top = cur
	}
	return top != nil && top.arc == ix.namespace
}

// CanonicalOf follows canonical-of edges from n until none remain. A node
// without an outgoing edge is its own canonical. A cycle is a ConfigError.
func (ix *Index) CanonicalOf(n *Node) (*Node, error) {
	visited := make(map[*Node]bool)
	var trail []string
	cur := n
	for cur.canonical != nil {
		if visited[cur] {
			trail = append(trail, cur.Path().String())
			return nil, &ConfigError{
				Code:    CodeCanonicalCycle,
				Message: fmt.Sprintf("canonical-of cycle: %s", strings.Join(trail, " → ")),
				Path:    n.Path().String(),
			}
		}
		visited[cur] = true
		trail = append(trail, cur.Path().String())
		cur = cur.canonical
	}
	return cur, nil
}

// FirstEquivalentOf returns the first declared equivalent of n.
func (ix *Index) FirstEquivalentOf(n *Node) (*Node, error) {
	if len(n.equivalents) == 0 {
		return nil, fmt.Errorf("%s: %w", n.Path(), ErrNoEquivalence)
	}
	return n.equivalents[0], nil
}

// Statements lists every edge in the graph, for inspection tools.
func (ix *Index) Statements() []Statement {
	var out []Statement
	ix.graph.Walk(func(n *Node) bool {
		if n.canonical != nil {
			out = append(out, Statement{Subject: n.Path(), Relation: RelationCanonical, Object: n.canonical.Path()})
		}
		for _, eq := range n.equivalents {
			out = append(out, Statement{Subject: n.Path(), Relation: RelationEquivalent, Object: eq.Path()})
		}
		return true
	})
	return out
}

// Relation names an edge kind.
type Relation string

const (
	RelationCanonical  Relation = "canonical"
	RelationEquivalent Relation = "equivalent"
)

// Statement is one edge of the graph.
type Statement struct {
	Subject  xri.Identifier `json:"subject"`
	Relation Relation       `json:"relation"`
	Object   xri.Identifier `json:"object"`
}

// String renders the statement as subject/relation/object.
func (s Statement) String() string {
	return fmt.Sprintf("%s/%s/%s", s.Subject, s.Relation, s.Object)
}
