// Package mapping converts identifiers between the Allfiled vendor scheme
// and the XDI canonical dictionary scheme.
//
// A Mapper wraps a read-only dictionary.Index and exposes:
//
//	CategoryIdentifier  +(personal)+(person)$!(+(forename)) → "personal"
//	FileIdentifier      +(personal)+(person)$!(+(forename)) → "person"
//	FieldIdentifier     +(personal)+(person)$!(+(forename)) → "forename"
//	VendorToCanonical   +(personal)+(person)$!(+(forename)) → +first$!(+name)
//	CanonicalToVendor   +first$!(+name) → +(personal)+(person)$!(+(forename))
//
// The triple helpers never consult the graph; they only rewrite arcs. The
// two conversions return ok == false when the dictionary holds no mapping,
// which is an expected outcome and not an error.
//
// A Mapper has no mutable state and is safe for concurrent use.
package mapping
