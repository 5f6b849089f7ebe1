// Package testutil provides shared fixtures for tests.
//
// The fixture definition is small and stable so tests can assert on exact
// identifiers without depending on the bundled mapping.cue, which changes
// as the vendor adds fields.
//
// testutil imports only compiler and xri so any package may use it from
// its internal tests.
package testutil
