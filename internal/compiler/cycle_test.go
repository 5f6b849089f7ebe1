package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/allfiledmap/internal/xri"
)

func rewrite(from, to string) Rewrite {
	return Rewrite{From: xri.MustParse(from), To: xri.MustParse(to)}
}

// TestAnalyzeRewriteCycles_Empty tests that empty input produces no cycles.
func TestAnalyzeRewriteCycles_Empty(t *testing.T) {
	assert.Empty(t, AnalyzeRewriteCycles(nil))
	assert.Empty(t, AnalyzeRewriteCycles([]Rewrite{}))
}

// TestAnalyzeRewriteCycles_Chain tests that a terminating chain is accepted.
func TestAnalyzeRewriteCycles_Chain(t *testing.T) {
	rewrites := []Rewrite{
		rewrite("+nick$!(+name)", "+alias$!(+name)"),
		rewrite("+alias$!(+name)", "+display$!(+name)"),
		rewrite("+given$!(+name)", "+first$!(+name)"),
	}

	assert.Empty(t, AnalyzeRewriteCycles(rewrites))
}

// TestAnalyzeRewriteCycles_SelfLoop tests detection of an identifier rewritten to itself.
func TestAnalyzeRewriteCycles_SelfLoop(t *testing.T) {
	cycles := AnalyzeRewriteCycles([]Rewrite{
		rewrite("+first$!(+name)", "+first+name"),
	})
	require.Len(t, cycles, 1)

	assert.Equal(t, []string{"+first+name", "+first+name"}, cycles[0].Path)
	assert.Contains(t, cycles[0].Message, "rewritten to itself")
}

// TestAnalyzeRewriteCycles_ThreeNodes tests detection of a longer cycle.
func TestAnalyzeRewriteCycles_ThreeNodes(t *testing.T) {
	cycles := AnalyzeRewriteCycles([]Rewrite{
		rewrite("+a", "+b"),
		rewrite("+b", "+c"),
		rewrite("+c", "+a"),
		rewrite("+d", "+a"),
	})
	require.Len(t, cycles, 1)

	assert.Equal(t, []string{"+a", "+b", "+c", "+a"}, cycles[0].Path)
	assert.Contains(t, cycles[0].Message, "+a → +b → +c → +a")
}

// TestAnalyzeRewriteCycles_Multiple tests that independent cycles are all reported.
func TestAnalyzeRewriteCycles_Multiple(t *testing.T) {
	cycles := AnalyzeRewriteCycles([]Rewrite{
		rewrite("+x", "+y"),
		rewrite("+y", "+x"),
		rewrite("+a", "+b"),
		rewrite("+b", "+a"),
	})
	require.Len(t, cycles, 2)

	assert.Equal(t, []string{"+a", "+b", "+a"}, cycles[0].Path)
	assert.Equal(t, []string{"+x", "+y", "+x"}, cycles[1].Path)
}
