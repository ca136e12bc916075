// Package errors provides structured error types for plasmap.
//
// Every error that crosses a package boundary (feature parsing, map
// construction, rendering, storage) carries a machine-readable [Code] so the
// CLI and the HTTP API can map it to an exit status or response code without
// string matching.
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (bad JSON, out-of-range positions)
//   - *NOT_FOUND: Missing resources (stored sequences, cache entries)
//   - RENDER_FAILED: Output conversion failures (PNG, PDF)
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFeature, "feature %d: start %d outside [1, %d]", i, start, n)
//	if errors.Is(err, errors.ErrCodeInvalidFeature) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRenderFailed, origErr, "rasterize %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput          Code = "INVALID_INPUT"
	ErrCodeInvalidFeature        Code = "INVALID_FEATURE"
	ErrCodeInvalidSequenceLength Code = "INVALID_SEQUENCE_LENGTH"
	ErrCodeInvalidFormat         Code = "INVALID_FORMAT"
	ErrCodeInvalidTopology       Code = "INVALID_TOPOLOGY"
	ErrCodeInvalidConfig         Code = "INVALID_CONFIG"
	ErrCodeInvalidID             Code = "INVALID_ID"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeSequenceNotFound Code = "SEQUENCE_NOT_FOUND"
	ErrCodeFeatureNotFound  Code = "FEATURE_NOT_FOUND"

	// Output errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalid reports whether err carries any INVALID_* code.
// The HTTP server uses it to separate client mistakes from server faults.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFeature, ErrCodeInvalidSequenceLength,
		ErrCodeInvalidFormat, ErrCodeInvalidTopology, ErrCodeInvalidConfig, ErrCodeInvalidID:
		return true
	}
	return false
}

// IsNotFound reports whether err carries any *NOT_FOUND code.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeSequenceNotFound, ErrCodeFeatureNotFound:
		return true
	}
	return false
}
