// Package errors provides structured error types for the tactile layout engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Only two codes halt a conversion job:
//   - INVALID_CONFIG: bad dimensions, grades, fractions or paper names,
//     reported before any computation starts
//   - DENSITY_EXCEEDED: a regulated page is still above the safety bound;
//     see [DensityError] for the achieved value
//
// The soft codes PLACEMENT_EXHAUSTED, TILING_DEGRADED and
// DENSITY_TARGET_MISSED never come back as errors from the engine. They tag
// the warnings collected in a layout summary.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "overlap must be below 0.5, got %v", v)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "failed to decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Fatal engine errors
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeDensityExceeded Code = "DENSITY_EXCEEDED"

	// Recoverable conditions, reported as warnings
	ErrCodePlacementExhausted  Code = "PLACEMENT_EXHAUSTED"
	ErrCodeTilingDegraded      Code = "TILING_DEGRADED"
	ErrCodeDensityTargetMissed Code = "DENSITY_TARGET_MISSED"
	ErrCodeGradeDowngraded     Code = "GRADE_DOWNGRADED"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Collaborator errors
	ErrCodeOCRUnavailable Code = "OCR_UNAVAILABLE"

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

// coder is implemented by typed errors that carry their own code.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a typed error
// with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
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

// DensityError reports a page whose raised-area fraction is still above the
// printable safety bound after regulation.
type DensityError struct {
	Page     int     // Logical page index
	Achieved float64 // Best fraction the regulator reached
	Limit    float64 // Safety bound that was exceeded
}

// Error implements the error interface.
func (e *DensityError) Error() string {
	return fmt.Sprintf("density exceeded on page %d: achieved %.1f%%, limit %.1f%%",
		e.Page, e.Achieved*100, e.Limit*100)
}

// Code returns the error code for this error type.
func (e *DensityError) Code() Code {
	return ErrCodeDensityExceeded
}
