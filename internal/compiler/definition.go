package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/allfiledmap/internal/xri"
)

// DefaultNamespace is the vendor namespace root used when a definition
// does not declare one.
const DefaultNamespace = "+(https://allfiled.com/)"

// DomainDefinition separates definition hashes from other content hashes.
const DomainDefinition = "allfiledmap/definition/v1"

// Definition is a compiled mapping definition.
type Definition struct {
	Version      string         `json:"version"`
	Namespace    xri.Identifier `json:"namespace"`
	Equivalences []Equivalence  `json:"equivalences"`
	Rewrites     []Rewrite      `json:"rewrites"`
}

// Equivalence declares a vendor triple equivalent to a canonical identifier.
type Equivalence struct {
	Vendor    xri.Identifier `json:"vendor"`
	Canonical xri.Identifier `json:"canonical"`
}

// Rewrite declares From a non-canonical form of To.
type Rewrite struct {
	From xri.Identifier `json:"from"`
	To   xri.Identifier `json:"to"`
}

// Hash returns the content hash of the definition. Statement order is part
// of the content.
func (d *Definition) Hash() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("hash definition: %w", err)
	}
	return xri.Hash(DomainDefinition, data), nil
}
