// Package apperror provides the typed errors shared by the back-office server,
// the API client and the calendar board. Each error carries an HTTP status
// code, a machine-readable type and a message that is safe to show to a user.
//
// Raw database, network or decoding errors never reach a user directly. They
// are wrapped into an AppError (usually via NewInternal or NewUpstream) and
// kept in Internal for logging.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the base error type for all domain errors.
type AppError struct {
	// Code is the HTTP status code (e.g., 404, 422, 502).
	Code int `json:"-"`

	// Type is a machine-readable error classifier (e.g., "not_found").
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Internal holds the underlying error for logging. Never exposed to users.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// --- Constructors for common error types ---

// NewNotFound creates a 404 Not Found error.
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Type:    "not_found",
		Message: message,
	}
}

// NewBadRequest creates a 400 Bad Request error.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    "bad_request",
		Message: message,
	}
}

// NewUnauthorized creates a 401 Unauthorized error.
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    "unauthorized",
		Message: message,
	}
}

// NewForbidden creates a 403 Forbidden error.
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Type:    "forbidden",
		Message: message,
	}
}

// NewConflict creates a 409 Conflict error.
func NewConflict(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Type:    "conflict",
		Message: message,
	}
}

// NewValidation creates a 422 Unprocessable Entity error for validation failures.
func NewValidation(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Type:    "validation_error",
		Message: message,
	}
}

// NewInternal creates a 500 Internal Server Error. The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "internal_error",
		Message:  "An unexpected error occurred. Please try again.",
		Internal: err,
	}
}

// NewUpstream creates a 502 error for a failed call to a remote collaborator
// (the persistence API seen from the calendar board). The message is the
// fixed text shown to the user; err is kept for logging.
func NewUpstream(message string, err error) *AppError {
	return &AppError{
		Code:     http.StatusBadGateway,
		Type:     "upstream_error",
		Message:  message,
		Internal: err,
	}
}

// FromStatus rebuilds an AppError from an HTTP status and the message a
// server returned. Used by API clients to keep the error kind of a remote
// failure (validation vs authorization vs not found).
func FromStatus(code int, message string) *AppError {
	var e *AppError
	switch code {
	case http.StatusBadRequest:
		e = NewBadRequest(message)
	case http.StatusUnauthorized:
		e = NewUnauthorized(message)
	case http.StatusForbidden:
		e = NewForbidden(message)
	case http.StatusNotFound:
		e = NewNotFound(message)
	case http.StatusConflict:
		e = NewConflict(message)
	case http.StatusUnprocessableEntity:
		e = NewValidation(message)
	default:
		e = &AppError{Code: code, Type: "remote_error", Message: message}
	}
	if e.Message == "" {
		e.Message = http.StatusText(code)
	}
	return e
}

// IsValidation reports whether err is (or wraps) a validation AppError.
func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusUnprocessableEntity
}

// IsNotFound reports whether err is (or wraps) a not-found AppError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusNotFound
}

// SafeMessage returns the client-safe error message from an error. AppErrors
// expose their Message; anything else gets a generic message so internal
// details (table names, query structure, stack traces) never leak.
func SafeMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

// SafeCode returns the HTTP status code from an AppError, or 500 for
// any other error type.
func SafeCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
