package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig     = "CONFIG"
	ErrAPI        = "API"    // backend unreachable or transport failure
	ErrHTTP       = "HTTP"   // backend answered with a non-success status
	ErrDecode     = "DECODE" // response body was not the JSON we expected
	ErrScan       = "SCAN"   // backend analysed the request and returned {error}
	ErrValidation = "VALIDATION"
	ErrExec       = "EXEC"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrAPI code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrAPI,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Short returns a single-line form of the error for status bars and log fields.
func (e *Error) Short() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// Summary returns a one-line description of any error, using Short for
// structured errors.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr.Short()
	}
	return err.Error()
}

// As finds the first structured Error in err's chain.
func As(err error) (*Error, bool) {
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr, true
	}
	return nil, false
}
