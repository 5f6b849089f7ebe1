package mapping

import (
	"errors"
	"fmt"
)

// Error represents a failed conversion.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the conversion that failed.
	Op string

	// Input is the rendered input identifier, if any.
	Input string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes conversion errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates an empty or wrong-arity input.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeConfiguration indicates the index is inconsistent.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
	if e.Input != "" {
		msg = fmt.Sprintf("%s (input=%s)", msg, e.Input)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsInvalidArgument returns true if err is an invalid-argument error.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == ErrCodeInvalidArgument
	}
	return false
}

func invalidArgument(op, input, message string) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Op: op, Input: input, Message: message}
}

func configuration(op, input string, err error) *Error {
	return &Error{Code: ErrCodeConfiguration, Op: op, Input: input, Message: "dictionary is inconsistent", Err: err}
}
