package apperror

import (
	"errors"
	"fmt"
	"testing"
)

// Table-driven: each case checks that errors.Is() finds the expected sentinel
// (or correctly does not find it), including through fmt.Errorf wrapping.
func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("user", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("name", "name is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("invalid email or password"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("meal", "abc123"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "NotFound survives fmt.Errorf wrapping",
			err:       fmt.Errorf("service/user: %w", NotFound("exercise", "e1")),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("meal", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Unauthorized does NOT match ErrNotFound",
			err:       Unauthorized("nope"),
			target:    ErrNotFound,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("user", "abc123"),
			wantMessage: "user not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("category", "category is invalid"),
			wantMessage: "category is invalid",
		},
		{
			name:        "Unauthorized uses custom message",
			err:         Unauthorized("invalid email or password"),
			wantMessage: "invalid email or password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("meal", "abc123")
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("duration", "duration is required")

	if err.Field != "duration" {
		t.Errorf("Field = %q, want %q", err.Field, "duration")
	}
}
