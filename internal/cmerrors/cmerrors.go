// Package cmerrors defines stable error codes for all cm failure modes.
package cmerrors

import (
	"errors"
	"fmt"
)

// Code classifies a failure so callers can decide how to surface it.
type Code string

const (
	// ConfigParse indicates the rc file was explicitly specified but could
	// not be read or parsed
	ConfigParse Code = "CONFIG_PARSE"
	// AmbiguousValue indicates a fuzzy value match found zero or multiple
	// candidates
	AmbiguousValue Code = "AMBIGUOUS_VALUE"
	// FeatureProbe indicates a tool probe failed for a reason other than
	// the tool not being installed
	FeatureProbe Code = "FEATURE_PROBE"
	// ResultDBUnavailable indicates the lit.json snapshot is missing or
	// malformed; callers treat this as "no known failing tests"
	ResultDBUnavailable Code = "RESULTDB_UNAVAILABLE"
	// CommandFailed indicates an external command exited non-zero
	CommandFailed Code = "COMMAND_FAILED"
)

// Error is a cm error with a stable code and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error wrapping an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// ExitError carries the exit status of a failed external command so the
// top-level process can mirror it instead of using a generic failure code.
type ExitError struct {
	// ExitCode is the child's exit code, or -1 when no code is available
	// (e.g. the child was killed by a signal).
	ExitCode int
}

// NewExitError creates an ExitError for the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{ExitCode: code}
}

// Error implements the error interface
func (e *ExitError) Error() string {
	if e.ExitCode < 0 {
		return "command failed with unknown code"
	}
	return fmt.Sprintf("command failed with code %d", e.ExitCode)
}
