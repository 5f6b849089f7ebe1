// Package dictionary holds the equivalence graph used to map identifiers
// between the vendor scheme and the canonical dictionary scheme.
//
// The graph is a tree of nodes addressed by paths of dictionary arcs, with
// two kinds of extra edges:
//
//   - canonical-of: a non-canonical node points at the node it is a rewritten
//     form of (vendor nodes point at their canonical counterpart)
//   - equivalence: a canonical node lists its vendor counterparts in
//     declaration order
//
// An Index is built once from a compiler.Definition and never mutated
// afterwards, so it is safe for any number of concurrent readers. Default
// returns the index compiled from the embedded mapping.cue, loaded at most
// once per process.
package dictionary
