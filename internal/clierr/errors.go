// Package clierr defines the structured errors and exit codes of the CLI.
package clierr

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	ExitOK       = 0 // Success
	ExitUsage    = 1 // Invalid arguments or flags
	ExitNotFound = 2 // Input file, cell or output not found
	ExitRender   = 3 // Output could not be converted or painted
	ExitResource = 4 // Temporary file could not be written
)

// Error codes.
const (
	CodeUsage    = "usage"
	CodeNotFound = "not_found"
	CodeRender   = "render"
	CodeResource = "resource"
)

// ExitCodeFor returns the exit code for a given error code.
func ExitCodeFor(code string) int {
	switch code {
	case CodeUsage:
		return ExitUsage
	case CodeNotFound:
		return ExitNotFound
	case CodeResource:
		return ExitResource
	default:
		return ExitRender
	}
}

// Error is a structured error with code, message, and optional hint.
type Error struct {
	Code    string
	Message string
	Hint    string
	Cause   error
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Hint)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	return ExitCodeFor(e.Code)
}

// Error constructors for common cases.

func ErrUsage(msg string) *Error {
	return &Error{Code: CodeUsage, Message: msg}
}

func ErrUsageHint(msg, hint string) *Error {
	return &Error{Code: CodeUsage, Message: msg, Hint: hint}
}

func ErrNotFound(resource, identifier string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
	}
}

func ErrNotFoundHint(resource, identifier, hint string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Hint:    hint,
	}
}

func ErrRender(what string, cause error) *Error {
	return &Error{
		Code:    CodeRender,
		Message: fmt.Sprintf("Cannot render %s", what),
		Hint:    cause.Error(),
		Cause:   cause,
	}
}

func ErrResource(cause error) *Error {
	return &Error{
		Code:    CodeResource,
		Message: "Cannot write output file",
		Hint:    cause.Error(),
		Cause:   cause,
	}
}

// AsError attempts to convert an error to an *Error.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{
		Code:    CodeRender,
		Message: err.Error(),
		Cause:   err,
	}
}
