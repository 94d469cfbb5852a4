package handler

// RESPONSE HELPERS:
// Every handler writes through writeJSON and writeError so the API has one
// success shape and one error shape:
//
//	{"message": "meal not found with id abc", "error": "not_found"}
//	{"message": "name is required", "error": "validation_error", "field": "name"}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/fitness-tracker/internal/apperror"
)

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Message string `json:"message"`         // Human-readable description
	Error   string `json:"error"`           // Machine-readable kind, e.g. "not_found"
	Field   string `json:"field,omitempty"` // Offending input field, for validation errors
}

// MessageResponse is the body of endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends data as JSON with the given status code. Headers must be
// set before WriteHeader, and the body after it.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and writes the error body.
//
//	ErrValidation   → 400 validation_error
//	ErrUnauthorized → 401 unauthorized
//	ErrForbidden    → 403 forbidden
//	ErrNotFound     → 404 not_found
//	ErrConflict     → 409 conflict
//	anything else   → 500 internal_error (logged, never echoed)
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		kind := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			kind = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			kind = "unauthorized"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			kind = "not_found"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			kind = "forbidden"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			kind = "conflict"
		}

		if status != http.StatusInternalServerError {
			writeJSON(w, status, ErrorResponse{
				Message: appErr.Message,
				Error:   kind,
				Field:   appErr.Field,
			})
			return
		}
	}

	// Raw errors can carry SQL or connection details; log them, never return them.
	logger.Error("internal error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Message: "An internal error occurred",
		Error:   "internal_error",
	})
}
