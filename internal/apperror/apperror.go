package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrBadCredential = errors.New("bad credential")
	ErrUnavailable   = errors.New("store unavailable")
)

type AppError struct {
	Err     error  // sentinel from the taxonomy above
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists: %s", resource, id),
	}
}

// Unauthorized returns an AppError for a missing, invalid, or expired
// session on a protected operation. HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// BadCredential returns an AppError for a failed password check.
//
// Internally this is distinguishable from ErrNotFound (unknown handle),
// but handlers present both as the same "invalid credentials" response so
// a caller cannot probe which handles exist.
func BadCredential() *AppError {
	return &AppError{
		Err:     ErrBadCredential,
		Message: "invalid credentials",
	}
}

// Unavailable wraps a transport-level store failure (unreachable database,
// timeout) so it reaches the caller classified, never as an empty success.
// HTTP handlers map this to 503.
func Unavailable(err error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrUnavailable, err),
		Message: "storage temporarily unavailable",
	}
}
