package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/allfiledmap/internal/xri"
)

// Validation error codes (E200-E299)
const (
	ErrVersionEmpty       = "E201" // version is required
	ErrNamespaceArity     = "E202" // namespace must be a single arc
	ErrVendorArity        = "E203" // vendor identifier must be a native triple
	ErrNoEquivalences     = "E204" // at least one equivalence required
	ErrDuplicateVendor    = "E205" // two keys reduce to the same vendor path
	ErrDuplicateRewrite   = "E206" // two keys reduce to the same rewrite source
	ErrRewriteCycle       = "E207" // rewrite chain never reaches a canonical form
	ErrCanonicalNamespace = "E208" // canonical identifier starts with the vendor namespace
)

// VendorArity is the number of arcs in a vendor triple (category, file, field).
const VendorArity = 3

// ValidationError represents a definition validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled definition.
// Returns all errors found (does not fail-fast).
func Validate(def *Definition) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(def.Version) == "" {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: "version is required and must be non-empty",
			Code:    ErrVersionEmpty,
		})
	}

	if def.Namespace.Len() != 1 {
		errs = append(errs, ValidationError{
			Field:   "namespace",
			Message: fmt.Sprintf("namespace must be a single arc, found %d", def.Namespace.Len()),
			Code:    ErrNamespaceArity,
		})
	}

	if len(def.Equivalences) == 0 {
		errs = append(errs, ValidationError{
			Field:   "equivalence",
			Message: "at least one equivalence is required",
			Code:    ErrNoEquivalences,
		})
	}

	seenVendor := make(map[string]bool)
	for _, eq := range def.Equivalences {
		field := fmt.Sprintf("equivalence.%q", eq.Vendor.String())
		if eq.Vendor.Len() != VendorArity {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("vendor identifier must have %d arcs, found %d", VendorArity, eq.Vendor.Len()),
				Code:    ErrVendorArity,
			})
		}
		key := eq.Vendor.Base().String()
		if seenVendor[key] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("vendor path %s declared more than once", key),
				Code:    ErrDuplicateVendor,
			})
		}
		seenVendor[key] = true

		if def.Namespace.Len() == 1 && !eq.Canonical.IsZero() {
			first, _ := eq.Canonical.At(0)
			if xri.BaseForm(first) == def.Namespace.Last() {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: "canonical identifier must not live in the vendor namespace",
					Code:    ErrCanonicalNamespace,
				})
			}
		}
	}

	seenRewrite := make(map[string]bool)
	for _, rw := range def.Rewrites {
		key := rw.From.Base().String()
		if seenRewrite[key] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("rewrite.%q", rw.From.String()),
				Message: fmt.Sprintf("rewrite source %s declared more than once", key),
				Code:    ErrDuplicateRewrite,
			})
		}
		seenRewrite[key] = true
	}

	for _, cycle := range AnalyzeRewriteCycles(def.Rewrites) {
		errs = append(errs, ValidationError{
			Field:   "rewrite",
			Message: cycle.Message,
			Code:    ErrRewriteCycle,
		})
	}

	return errs
}
