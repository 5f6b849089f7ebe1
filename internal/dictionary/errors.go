package dictionary

import (
	"errors"
	"fmt"
)

// ErrNoEquivalence is returned by FirstEquivalentOf for a node without
// declared equivalents.
var ErrNoEquivalence = errors.New("no equivalence declared")

// ConfigError reports a definition that cannot be turned into a usable
// index. It is fatal at startup and never a per-call condition.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the dictionary path involved, if any.
	Path string

	// Err is the underlying cause, if any.
	Err error
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// CodeInvalidDefinition indicates the definition failed to load or validate.
	CodeInvalidDefinition ConfigErrorCode = "INVALID_DEFINITION"

	// CodeCanonicalCycle indicates canonical-of edges form a cycle.
	CodeCanonicalCycle ConfigErrorCode = "CANONICAL_CYCLE"

	// CodeConflictingEdge indicates a node was given two canonical-of edges.
	CodeConflictingEdge ConfigErrorCode = "CONFLICTING_EDGE"

	// CodeForeignEquivalent indicates an equivalent node outside the vendor namespace.
	CodeForeignEquivalent ConfigErrorCode = "FOREIGN_EQUIVALENT"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path=%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError returns true if err is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsCycleError returns true if err is a canonical-of cycle.
func IsCycleError(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == CodeCanonicalCycle
	}
	return false
}
