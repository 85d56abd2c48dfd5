package handler

// Response helpers. Every error response from the API has the same shape:
//
//	{"error": "conflict", "message": "user already exists: alice"}
//
// so clients always know what fields to expect regardless of status code.
//
// This file is also where domain errors become HTTP. The service layer
// returns apperror sentinels; handlers stay free of status-code logic and
// the service stays free of HTTP. Two deliberate asymmetries:
//
//   - ErrNotFound from a login flow and ErrBadCredential map to the SAME
//     401 "invalid credentials" response. Distinguishing them would let a
//     caller probe which handles are registered.
//   - Unknown errors become an opaque 500. A raw error string can carry
//     SQL fragments or file paths; it goes to the log, not the client.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danicka150/fsocies/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable error type (e.g. "conflict")
	Message string `json:"message"` // Human-readable description
}

// writeJSON sends a JSON response with the given status code.
// Headers must be set before WriteHeader, and both before the body.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status and sends it.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError

	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"
		message := appErr.Message

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest // 400
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict // 409
			errorType = "conflict"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized // 401
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrBadCredential):
			status = http.StatusUnauthorized // 401
			errorType = "invalid_credentials"
			message = "invalid credentials"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound // 404
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUnavailable):
			status = http.StatusServiceUnavailable // 503
			errorType = "unavailable"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// writeInvalidCredentials is the single undifferentiated login failure.
// The login handler routes both "unknown handle" and "wrong password"
// here so the two cases are indistinguishable from outside.
func writeInvalidCredentials(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{
		Error:   "invalid_credentials",
		Message: "invalid credentials",
	})
}
