// Package xri provides the identifier model shared by every other package.
//
// An identifier is an immutable, non-empty sequence of arcs written in XDI
// surface syntax, for example:
//
//	+(personal)+(person)$!(+(forename))   vendor triple (category, file, field)
//	+first$!(+name)                       canonical dictionary identifier
//
// Key design constraints:
//   - xri imports nothing internal; it is the foundational layer
//   - Arc is comparable so it can key maps in the dictionary graph
//   - Arc values are NFC normalized at construction, never later
//   - Entity singletons are written bare, so BaseForm and AsEntitySingleton
//     agree; only the attribute singleton $!( ) has a surface marker
package xri
