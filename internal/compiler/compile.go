package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/allfiledmap/internal/xri"
)

// LoadFile reads and compiles a CUE definition file.
func LoadFile(path string) (*Definition, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	return CompileSource(path, src)
}

// CompileSource compiles CUE source text. filename is used in positions.
func CompileSource(filename string, src []byte) (*Definition, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	return CompileDefinition(v)
}

// CompileDefinition parses a CUE value into a Definition.
// Uses CUE SDK's Go API directly (not CLI subprocess).
func CompileDefinition(v cue.Value) (*Definition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	def := &Definition{}

	versionVal := v.LookupPath(cue.ParsePath("version"))
	if !versionVal.Exists() {
		return nil, &CompileError{
			Field:   "version",
			Message: "version is required",
			Pos:     v.Pos(),
		}
	}
	version, err := versionVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	def.Version = version

	ns := DefaultNamespace
	nsVal := v.LookupPath(cue.ParsePath("namespace"))
	if nsVal.Exists() {
		ns, err = nsVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
	}
	def.Namespace, err = xri.Parse(ns)
	if err != nil {
		return nil, &CompileError{
			Field:   "namespace",
			Message: err.Error(),
			Pos:     nsVal.Pos(),
		}
	}

	def.Equivalences, err = parseEquivalences(v)
	if err != nil {
		return nil, err
	}

	def.Rewrites, err = parseRewrites(v)
	if err != nil {
		return nil, err
	}

	return def, nil
}

// parseEquivalences reads the equivalence struct: vendor triple → canonical.
func parseEquivalences(v cue.Value) ([]Equivalence, error) {
	var out []Equivalence
	err := eachPair(v, "equivalence", func(key, value xri.Identifier) {
		out = append(out, Equivalence{Vendor: key, Canonical: value})
	})
	return out, err
}

// parseRewrites reads the rewrite struct: non-canonical → canonical.
func parseRewrites(v cue.Value) ([]Rewrite, error) {
	var out []Rewrite
	err := eachPair(v, "rewrite", func(key, value xri.Identifier) {
		out = append(out, Rewrite{From: key, To: value})
	})
	return out, err
}

// eachPair walks a struct of identifier → identifier fields in declaration
// order. A missing struct is not an error.
func eachPair(v cue.Value, field string, fn func(key, value xri.Identifier)) error {
	structVal := v.LookupPath(cue.ParsePath(field))
	if !structVal.Exists() {
		return nil
	}

	iter, err := structVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		label := iter.Selector().Unquoted()
		pos := iter.Value().Pos()

		key, err := xri.Parse(label)
		if err != nil {
			return &CompileError{
				Field:   fmt.Sprintf("%s.%q", field, label),
				Message: err.Error(),
				Pos:     pos,
			}
		}

		str, err := iter.Value().String()
		if err != nil {
			return formatCUEError(err)
		}
		value, err := xri.Parse(str)
		if err != nil {
			return &CompileError{
				Field:   fmt.Sprintf("%s.%q", field, label),
				Message: err.Error(),
				Pos:     pos,
			}
		}

		fn(key, value)
	}

	return nil
}
