// Package compiler turns a CUE mapping definition into a Definition.
//
// A definition declares, in XDI instance syntax, which vendor triple is
// equivalent to which canonical identifier, and which canonical identifiers
// are rewritten forms of others:
//
//	version:   "2013.1"
//	namespace: "+(https://allfiled.com/)"
//
//	equivalence: {
//		"+(personal)+(person)$!(+(forename))": "+first$!(+name)"
//	}
//
//	rewrite: {
//		"+given$!(+name)": "+first$!(+name)"
//	}
//
// Field order is significant: when several vendor triples name the same
// canonical identifier, the first one declared is its vendor equivalent.
//
// The compiler only parses and validates. Building the lookup graph is the
// job of package dictionary.
package compiler
