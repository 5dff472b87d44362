// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/atriumworks/atrium/lib/portal"
)

// ErrorCategory classifies command errors so that scripts can make
// programmatic decisions (retry, fix input, escalate) from the exit
// code without parsing error message text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing required arguments, wrong argument count, unparseable
	// values. The caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced resource does not exist:
	// unknown file ID, unknown user, missing session file. Retrying
	// with the same parameters will not help.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden indicates the caller lacks permission for the
	// requested operation, or the stored credentials were rejected.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict indicates the operation conflicts with existing
	// state, such as registering an email that is already taken.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient indicates a temporary failure: network error,
	// timeout, server overload. The caller should back off and retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error: bugs, I/O
	// failures, malformed server responses. The caller should report
	// the error rather than retry.
	CategoryInternal ErrorCategory = "internal"
)

// CommandError is a categorized error returned by CLI commands. main
// inspects the Category to choose the process exit code, so scripts
// can branch on the kind of failure.
//
// CommandError wraps an inner error, preserving the full error chain
// for errors.Is and errors.As while adding category metadata. Use the
// category-specific constructors (Validation, NotFound, etc.) rather
// than constructing CommandError directly.
type CommandError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message. The category is not
// included in the string; it travels separately via the exit code.
func (e *CommandError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error, allowing errors.Is and
// errors.As to walk the full chain through the CommandError wrapper.
func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode maps the category to a stable process exit code.
func (e *CommandError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return 2
	case CategoryNotFound:
		return 3
	case CategoryForbidden:
		return 4
	case CategoryConflict:
		return 5
	case CategoryTransient:
		return 6
	default:
		return 1
	}
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error: the caller lacks permission.
func Forbidden(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error: the operation conflicts with existing state.
func Conflict(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may succeed on retry.
func Transient(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Categorize wraps a portal API failure in a CommandError whose
// category follows the HTTP status. Errors that already carry a
// category pass through unchanged; errors with no recognizable status
// are treated as transient, since they are usually network failures.
func Categorize(err error) *CommandError {
	var commandError *CommandError
	if errors.As(err, &commandError) {
		return commandError
	}

	var apiError *portal.APIError
	if !errors.As(err, &apiError) {
		return &CommandError{Category: CategoryTransient, Err: err}
	}

	switch apiError.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &CommandError{Category: CategoryValidation, Err: err}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &CommandError{Category: CategoryForbidden, Err: err}
	case http.StatusNotFound:
		return &CommandError{Category: CategoryNotFound, Err: err}
	case http.StatusConflict:
		return &CommandError{Category: CategoryConflict, Err: err}
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return &CommandError{Category: CategoryTransient, Err: err}
	default:
		return &CommandError{Category: CategoryInternal, Err: err}
	}
}
