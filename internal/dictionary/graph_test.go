package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/allfiledmap/internal/xri"
)

func TestGraph_EnsureAndFind(t *testing.T) {
	g := NewGraph()
	path := xri.MustParse("+(+first)+(+name)")

	n := g.Ensure(path)
	assert.Equal(t, 2, g.Len())
	assert.True(t, n.Path().Equal(path))
	assert.Same(t, n, g.Ensure(path), "ensure is idempotent")
	assert.Equal(t, 2, g.Len())

	assert.Same(t, n, g.FindNode(path))

	parent := g.FindNode(xri.MustParse("+(+first)"))
	require.NotNil(t, parent)
	assert.Equal(t, "+(+first)", parent.Path().String())
	assert.Equal(t, "+(+name)", n.Arc().String())
}

func TestGraph_FindNodeExactOnly(t *testing.T) {
	g := NewGraph()
	g.Ensure(xri.MustParse("+(+first)+(+name)"))

	assert.Nil(t, g.FindNode(xri.MustParse("+(+first)+(+name)+(+x)")))
	assert.Nil(t, g.FindNode(xri.MustParse("+(+name)")))
	assert.Nil(t, g.FindNode(xri.MustParse("+(+first)$!(+(+name))")), "decoration is part of the arc")
	assert.Nil(t, g.FindNode(xri.Identifier{}))
}

func TestGraph_WalkInsertionOrder(t *testing.T) {
	g := NewGraph()
	g.Ensure(xri.MustParse("+(+home)+(+phone)"))
	g.Ensure(xri.MustParse("+(+home)+(+address)"))

	var visited []string
	g.Walk(func(n *Node) bool {
		visited = append(visited, n.Path().String())
		return true
	})
	assert.Equal(t, []string{"+(+home)", "+(+home)+(+phone)", "+(+home)+(+address)"}, visited)
}

func TestGraph_Edges(t *testing.T) {
	g := NewGraph()
	a := g.Ensure(xri.MustParse("+(+a)"))
	b := g.Ensure(xri.MustParse("+(+b)"))
	c := g.Ensure(xri.MustParse("+(+c)"))

	require.NoError(t, g.SetCanonical(a, b))
	require.NoError(t, g.SetCanonical(a, b), "same edge twice is fine")

	err := g.SetCanonical(a, c)
	require.Error(t, err)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CodeConflictingEdge, ce.Code)

	target, ok := a.Canonical()
	assert.True(t, ok)
	assert.Same(t, b, target)
	_, ok = b.Canonical()
	assert.False(t, ok)

	g.AddEquivalent(b, a)
	g.AddEquivalent(b, c)
	g.AddEquivalent(b, a)
	assert.Equal(t, []*Node{a, c}, b.Equivalents())
}

func TestGraph_Walk(t *testing.T) {
	g := NewGraph()
	g.Ensure(xri.MustParse("+(+a)+(+b)"))
	g.Ensure(xri.MustParse("+(+c)"))

	var visited []string
	g.Walk(func(n *Node) bool {
		visited = append(visited, n.Path().String())
		return true
	})
	assert.Equal(t, []string{"+(+a)", "+(+a)+(+b)", "+(+c)"}, visited)

	visited = nil
	g.Walk(func(n *Node) bool {
		visited = append(visited, n.Path().String())
		return false
	})
	assert.Equal(t, []string{"+(+a)"}, visited)
}
