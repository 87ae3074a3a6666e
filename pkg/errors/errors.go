// Package errors provides structured error types for ddcharts.
//
// Every failure that can end a render cycle carries a machine-readable [Code]
// so the CLI, the HTTP server and the render pipeline can react to it
// without string matching:
//
//   - MALFORMED_PAYLOAD: row/column length mismatch or unusable columns
//   - EMPTY_BASELINE: the confidence-band predicate selected no rows
//   - OUT_OF_DOMAIN: a categorical position was requested for an unknown value
//   - TYPE_MISMATCH: a field holds a string where a number is required
//
// These four are cycle-local: the renderer aborts the current cycle, keeps
// the last good chart and reports the error. See [Recoverable].
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedPayload, "row %d has %d values, want %d", i, got, want)
//	if errors.Is(err, errors.ErrCodeMalformedPayload) {
//	    // Handle bad payload
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFetchFailed, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Render cycle errors
	ErrCodeMalformedPayload Code = "MALFORMED_PAYLOAD"
	ErrCodeEmptyBaseline    Code = "EMPTY_BASELINE"
	ErrCodeOutOfDomain      Code = "OUT_OF_DOMAIN"
	ErrCodeTypeMismatch     Code = "TYPE_MISMATCH"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidKind   Code = "INVALID_KIND"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeFetchFailed Code = "FETCH_FAILED"

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

// Recoverable reports whether err only invalidates the current render cycle.
// The caller keeps its last good chart and waits for the next message.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeMalformedPayload, ErrCodeEmptyBaseline, ErrCodeOutOfDomain, ErrCodeTypeMismatch:
		return true
	}
	return false
}

// HTTPStatus maps the error code of err to an HTTP status code.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeMalformedPayload, ErrCodeEmptyBaseline, ErrCodeOutOfDomain, ErrCodeTypeMismatch:
		return http.StatusUnprocessableEntity
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidKind:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
