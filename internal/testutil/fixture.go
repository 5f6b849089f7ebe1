package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/allfiledmap/internal/compiler"
)

// FixtureSource is a minimal mapping definition.
//
// It covers a two-arc canonical (forename), a one-arc canonical (gender),
// a three-arc canonical (street), a shared canonical with two vendor
// fields (home/landline), and a rewrite chain (nickname).
const FixtureSource = `
version:   "test.1"
namespace: "+(https://allfiled.com/)"

equivalence: {
	"+(personal)+(person)$!(+(forename))": "+first$!(+name)"
	"+(personal)+(person)$!(+(surname))":  "+last$!(+name)"
	"+(personal)+(person)$!(+(gender))":   "$!(+gender)"
	"+(personal)+(person)$!(+(nickname))": "+nick$!(+name)"
	"+(address)+(home)$!(+(street))":      "+home+address$!(+street)"
	"+(contact)+(phone)$!(+(home))":       "+home$!(+phone)"
	"+(contact)+(phone)$!(+(landline))":   "+home$!(+phone)"
}

rewrite: {
	"+nick$!(+name)":  "+alias$!(+name)"
	"+alias$!(+name)": "+display$!(+name)"
	"+given$!(+name)": "+first$!(+name)"
}
`

// FixtureFilename is the filename used in fixture compile positions.
const FixtureFilename = "fixture.cue"

// Definition compiles FixtureSource, failing the test on error.
func Definition(t testing.TB) *compiler.Definition {
	t.Helper()
	def, err := compiler.CompileSource(FixtureFilename, []byte(FixtureSource))
	require.NoError(t, err)
	return def
}

// CompileSource compiles src, failing the test on error.
func CompileSource(t testing.TB, src string) *compiler.Definition {
	t.Helper()
	def, err := compiler.CompileSource("inline.cue", []byte(src))
	require.NoError(t, err)
	return def
}
