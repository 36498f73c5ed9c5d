package errors

import (
	"fmt"
	"testing"
)

func TestPaceError_Error(t *testing.T) {
	err := &PaceError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "post not found",
	}

	expected := "NOT_FOUND: post not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("text is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "text is required" {
		t.Errorf("Message = %q, want %q", err.Message, "text is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01J5KQ")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "01J5KQ" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "01J5KQ")
	}
}

func TestNewRateLimited(t *testing.T) {
	err := NewRateLimited(300, "2026-01-02T15:04:05Z")

	if err.Code != ErrRateLimited {
		t.Errorf("Code = %q, want %q", err.Code, ErrRateLimited)
	}
	if err.Status != 429 {
		t.Errorf("Status = %d, want 429", err.Status)
	}
	if err.Details["limit"] != 300 {
		t.Errorf("Details[limit] = %v, want 300", err.Details["limit"])
	}
}

func TestNewPublishFailed(t *testing.T) {
	err := NewPublishFailed(fmt.Errorf("connection refused"))

	if err.Code != ErrPublishFailed {
		t.Errorf("Code = %q, want %q", err.Code, ErrPublishFailed)
	}
	if err.Status != 502 {
		t.Errorf("Status = %d, want 502", err.Status)
	}
	if err.Message != "publish failed: connection refused" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		originalErr := fmt.Errorf("database connection failed")
		err := NewInternal(originalErr)

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		// Message should be generic (not leak internal details)
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		// Original error should be stored in Details for logging
		if err.Details["internal_error"] != "database connection failed" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		// Details should be empty but not nil
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if Is(err, ErrRateLimited) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-PaceError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-PaceError")
		}
	})

	t.Run("wrapped PaceError", func(t *testing.T) {
		inner := NewNotFound("test")
		wrapped := fmt.Errorf("submit: %w", inner)
		if !Is(wrapped, ErrNotFound) {
			t.Error("Is() = false, want true for wrapped PaceError")
		}
		if Is(wrapped, ErrRateLimited) {
			t.Error("Is() = true, want false for wrong code on wrapped PaceError")
		}
	})
}
