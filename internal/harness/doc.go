// Package harness runs mapping scenarios: YAML files listing conversions
// and their expected outcomes.
//
// # Scenario Format
//
//	name: personal_fields
//	description: "Personal fields map to XDI name identifiers"
//	definition: ../definitions/mapping.cue   # optional, defaults to the bundled definition
//	steps:
//	  - op: vendor_to_canonical
//	    input: "+(personal)+(person)$!(+(forename))"
//	    expect: "+first$!(+name)"
//	  - op: canonical_to_vendor
//	    input: "+alias$!(+name)"
//	    no_mapping: true
//	  - op: field
//	    input: "+(personal)$!(+(person))"
//	    error: INVALID_ARGUMENT
//
// # Operations
//
//   - vendor_to_canonical, canonical_to_vendor: the two conversions
//   - category, file, field: triple decomposition
//   - round_trip: vendor → canonical → vendor, which must return the input
//
// # Determinism
//
// Each scenario persists its definition to a fresh in-memory store and maps
// against the index rebuilt from the stored snapshot. Traces contain no ids,
// hashes or timestamps, so they are stable for golden file comparison.
package harness
