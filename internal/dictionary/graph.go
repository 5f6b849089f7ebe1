package dictionary

import "github.com/roach88/allfiledmap/internal/xri"

// Node is a context node in the dictionary graph.
type Node struct {
	arc         xri.Arc
	parent      *Node
	children    map[xri.Arc]*Node
	order       []*Node
	canonical   *Node
	equivalents []*Node
}

// Arc returns the node's own arc. The root has the zero Arc.
func (n *Node) Arc() xri.Arc {
	return n.arc
}

// Path returns the arcs from the root to n. The root's path is zero.
func (n *Node) Path() xri.Identifier {
	var arcs []xri.Arc
	for cur := n; cur.parent != nil; cur = cur.parent {
		arcs = append(arcs, cur.arc)
	}
	if len(arcs) == 0 {
		return xri.Identifier{}
	}
	for i, j := 0, len(arcs)-1; i < j; i, j = i+1, j-1 {
		arcs[i], arcs[j] = arcs[j], arcs[i]
	}
	return xri.MustNew(arcs...)
}

// Canonical returns the direct canonical-of target, if any.
func (n *Node) Canonical() (*Node, bool) {
	return n.canonical, n.canonical != nil
}

// Equivalents returns declared equivalents in declaration order.
func (n *Node) Equivalents() []*Node {
	return append([]*Node(nil), n.equivalents...)
}

// Graph is an in-memory tree of context nodes.
// A Graph is not safe for concurrent mutation; an Index freezes one.
type Graph struct {
	root *Node
	size int
}

// NewGraph returns a graph holding only the root.
func NewGraph() *Graph {
	return &Graph{root: &Node{}}
}

// Len returns the number of nodes, excluding the root.
func (g *Graph) Len() int {
	return g.size
}

// FindNode returns the node at exactly path, or nil. There is no prefix
// matching. Arcs are compared as given, decoration included.
func (g *Graph) FindNode(path xri.Identifier) *Node {
	if path.IsZero() {
		return nil
	}
	cur := g.root
	for _, a := range path.Arcs() {
		next, ok := cur.children[a]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// Ensure returns the node at path, creating it and any missing ancestors.
func (g *Graph) Ensure(path xri.Identifier) *Node {
	cur := g.root
	for _, a := range path.Arcs() {
		next, ok := cur.children[a]
		if !ok {
			if cur.children == nil {
				cur.children = make(map[xri.Arc]*Node)
			}
			next = &Node{arc: a, parent: cur}
			cur.children[a] = next
			cur.order = append(cur.order, next)
			g.size++
		}
		cur = next
	}
	return cur
}

// SetCanonical adds the canonical-of edge from → to. A node has at most one
// canonical-of edge; setting a different one is a ConfigError.
func (g *Graph) SetCanonical(from, to *Node) error {
	if from.canonical != nil && from.canonical != to {
		return &ConfigError{
			Code:    CodeConflictingEdge,
			Message: "node already has canonical " + from.canonical.Path().String(),
			Path:    from.Path().String(),
		}
	}
	from.canonical = to
	return nil
}

// AddEquivalent appends eq to n's equivalents unless already present.
func (g *Graph) AddEquivalent(n, eq *Node) {
	for _, existing := range n.equivalents {
		if existing == eq {
			return
		}
	}
	n.equivalents = append(n.equivalents, eq)
}

// Walk visits every node except the root depth-first in insertion order.
// Returning false from fn stops the walk.
func (g *Graph) Walk(fn func(*Node) bool) {
	var visit func(*Node) bool
	visit = func(n *Node) bool {
		for _, child := range n.order {
			if !fn(child) || !visit(child) {
				return false
			}
		}
		return true
	}
	visit(g.root)
}
