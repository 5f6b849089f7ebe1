package dictionary

import (
	_ "embed"
	"sync"

	"github.com/roach88/allfiledmap/internal/compiler"
)

//go:embed mapping.cue
var bundledDefinition []byte

// BundledFilename is the name positions in the embedded definition refer to.
const BundledFilename = "mapping.cue"

// BundledSource returns a copy of the embedded definition source.
func BundledSource() []byte {
	return append([]byte(nil), bundledDefinition...)
}

// LoadBundled compiles the embedded definition into a fresh index.
func LoadBundled() (*Index, error) {
	def, err := compiler.CompileSource(BundledFilename, bundledDefinition)
	if err != nil {
		return nil, &ConfigError{Code: CodeInvalidDefinition, Message: "bundled definition", Err: err}
	}
	return Build(def)
}

var loadDefault = sync.OnceValues(LoadBundled)

// Default returns the process-wide index compiled from the embedded
// definition. The first call loads it; concurrent first calls wait for the
// same load, and a load failure is returned to every caller.
func Default() (*Index, error) {
	return loadDefault()
}
