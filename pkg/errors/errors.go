// Package errors provides structured error types for the svgdiff engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Per-pair failure isolation in batch runs
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every stage of the comparison pipeline fails with its own code:
//   - ANALYSIS_FAILED: the document has no usable root SVG element
//   - ALIGNMENT_FAILED: a referenced element id is absent from a document
//   - PLAN_INVALID: planned render dimensions collapsed to zero or below
//   - RASTERIZATION_FAILED: the rendering backend crashed or produced nothing
//   - REPAIR_FAILED: the viewBox repair collaborator failed
//   - VALIDATION_FAILED and INVALID_*: malformed input or out-of-range config
//
// # Usage
//
//	err := errors.New(errors.ErrCodeAnalysis, "no root svg element in %s", path)
//	if errors.Is(err, errors.ErrCodeAnalysis) {
//	    // Handle analysis failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRasterization, origErr, "render %dx%d", w, h)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for each failure category of the comparison pipeline.
const (
	// Pipeline stage errors
	ErrCodeAnalysis      Code = "ANALYSIS_FAILED"
	ErrCodeAlignment     Code = "ALIGNMENT_FAILED"
	ErrCodePlan          Code = "PLAN_INVALID"
	ErrCodeRasterization Code = "RASTERIZATION_FAILED"
	ErrCodeRepair        Code = "REPAIR_FAILED"

	// Input validation errors
	ErrCodeValidation    Code = "VALIDATION_FAILED"
	ErrCodeInvalidThresh Code = "INVALID_THRESHOLD"
	ErrCodeInvalidTol    Code = "INVALID_TOLERANCE"
	ErrCodeInvalidMode   Code = "INVALID_MODE"
	ErrCodeInvalidBatch  Code = "INVALID_BATCH"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeTimeout      Code = "TIMEOUT"

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
