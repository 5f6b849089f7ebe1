package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a list of conversions run against one definition.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Definition is the CUE definition to map with. Relative paths resolve
	// against the scenario file. Empty means the bundled definition.
	Definition string `yaml:"definition,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`
}

// Step is one conversion and its expected outcome. At most one of Expect,
// NoMapping and Error may be set; with none set any successful mapping
// passes.
type Step struct {
	// Op is the conversion to run.
	Op string `yaml:"op"`

	// Input is the identifier in XDI syntax.
	Input string `yaml:"input"`

	// Expect is the expected output. For round_trip it is the canonical
	// identifier visited on the way.
	Expect string `yaml:"expect,omitempty"`

	// NoMapping expects the dictionary to hold no mapping for Input.
	NoMapping bool `yaml:"no_mapping,omitempty"`

	// Error is the expected error code (e.g. INVALID_ARGUMENT, PARSE_ERROR).
	Error string `yaml:"error,omitempty"`
}

// Operation names.
const (
	OpVendorToCanonical = "vendor_to_canonical"
	OpCanonicalToVendor = "canonical_to_vendor"
	OpCategory          = "category"
	OpFile              = "file"
	OpField             = "field"
	OpRoundTrip         = "round_trip"
)

var knownOps = map[string]bool{
	OpVendorToCanonical: true,
	OpCanonicalToVendor: true,
	OpCategory:          true,
	OpFile:              true,
	OpField:             true,
	OpRoundTrip:         true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative definition path resolves against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Definition != "" && !filepath.IsAbs(scenario.Definition) {
		scenario.Definition = filepath.Join(filepath.Dir(path), scenario.Definition)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return scenario, nil
}

// ParseScenario decodes scenario YAML without validating it.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.Definition != "" {
		if _, err := os.Stat(s.Definition); os.IsNotExist(err) {
			return fmt.Errorf("definition file not found: %s", s.Definition)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, st *Step) error {
	if st.Op == "" {
		return fmt.Errorf("steps[%d]: op is required", index)
	}
	if !knownOps[st.Op] {
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}
	if st.Input == "" && st.Error == "" {
		return fmt.Errorf("steps[%d]: input is required", index)
	}

	set := 0
	for _, b := range []bool{st.Expect != "", st.NoMapping, st.Error != ""} {
		if b {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("steps[%d]: expect, no_mapping and error are mutually exclusive", index)
	}

	if st.NoMapping && !mapsThroughDictionary(st.Op) {
		return fmt.Errorf("steps[%d]: no_mapping is not valid for %s", index, st.Op)
	}

	return nil
}

// mapsThroughDictionary reports whether op consults the dictionary and can
// therefore report no mapping.
func mapsThroughDictionary(op string) bool {
	switch op {
	case OpVendorToCanonical, OpCanonicalToVendor, OpRoundTrip:
		return true
	}
	return false
}
