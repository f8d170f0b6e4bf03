// Package errors provides structured error types for the maxplot pipeline.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes map one-to-one onto the pipeline stages that can fail:
//   - UNKNOWN_UNIT / INCOMPATIBLE_UNIT: quantity layer failures
//   - INVALID_SPEC: a builder operation on the figure model was rejected
//   - VALIDATION_FAILED / INVALID_STYLE: the figure failed structural checks
//   - UNKNOWN_BACKEND / UNSUPPORTED_EXPORT: backend dispatch failures
//   - EXPORT_CONFLICT: filesystem write hazard during export
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSpec, "series %q: x has %d points, y has %d", name, nx, ny)
//	if errors.Is(err, errors.ErrCodeInvalidSpec) {
//	    // Handle specification error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExportConflict, origErr, "writing %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for each failure category of the pipeline.
const (
	// Quantity layer errors
	ErrCodeUnknownUnit      Code = "UNKNOWN_UNIT"
	ErrCodeIncompatibleUnit Code = "INCOMPATIBLE_UNIT"

	// Specification model errors
	ErrCodeInvalidSpec Code = "INVALID_SPEC"

	// Validation errors
	ErrCodeValidation   Code = "VALIDATION_FAILED"
	ErrCodeInvalidStyle Code = "INVALID_STYLE"

	// Backend dispatch and export errors
	ErrCodeUnknownBackend    Code = "UNKNOWN_BACKEND"
	ErrCodeUnsupportedExport Code = "UNSUPPORTED_EXPORT"
	ErrCodeExportConflict    Code = "EXPORT_CONFLICT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
