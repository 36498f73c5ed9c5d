package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Pace error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrRateLimited    ErrorCode = "RATE_LIMITED"    // 429
	ErrPublishFailed  ErrorCode = "PUBLISH_FAILED"  // 502
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// PaceError represents a structured error with code, status, and details.
type PaceError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *PaceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *PaceError {
	return &PaceError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing post record.
func NewNotFound(identifier string) *PaceError {
	return &PaceError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("post not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewRateLimited creates a 429 error for an exhausted publisher rate limit.
func NewRateLimited(limit int, resetAt string) *PaceError {
	return &PaceError{
		Code:    ErrRateLimited,
		Status:  429,
		Message: fmt.Sprintf("publisher rate limit exhausted, resets at %s", resetAt),
		Details: map[string]any{"limit": limit, "reset_at": resetAt},
	}
}

// NewPublishFailed creates a 502 error for an unclassified publisher failure.
func NewPublishFailed(err error) *PaceError {
	msg := "publish failed"
	if err != nil {
		msg = fmt.Sprintf("publish failed: %v", err)
	}
	return &PaceError{
		Code:    ErrPublishFailed,
		Status:  502,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message is kept generic; the original error is stored in Details for logging.
func NewInternal(err error) *PaceError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &PaceError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error is a PaceError with the given code.
// Wrapped PaceErrors are unwrapped via errors.As.
func Is(err error, code ErrorCode) bool {
	var pErr *PaceError
	if stderrors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}
