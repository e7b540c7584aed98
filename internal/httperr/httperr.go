// internal/httperr/httperr.go
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Error is the API failure shape: an HTTP status plus a short machine-readable
// code. Services construct these directly; infra errors go through Map.
type Error struct {
	Status int    `json:"-"`
	Code   string `json:"error"`
}

func (e *Error) Error() string { return e.Code }

// Invalid creates a 400 error for bad input validation.
func Invalid(code string) *Error { return &Error{Status: http.StatusBadRequest, Code: code} }

// Unauthorized creates a 401 error for auth failures.
func Unauthorized(code string) *Error { return &Error{Status: http.StatusUnauthorized, Code: code} }

// NotFound creates a 404 error for absent targets.
func NotFound(code string) *Error { return &Error{Status: http.StatusNotFound, Code: code} }

// Conflict creates a 409 error for duplicate likes, taken emails, etc.
func Conflict(code string) *Error { return &Error{Status: http.StatusConflict, Code: code} }

// Map converts repo/infra errors into API errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr

	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("record_not_found")

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict("duplicate_record")

	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Status: http.StatusGatewayTimeout, Code: "request_timed_out"}

	default:
		return &Error{Status: http.StatusInternalServerError, Code: "internal_error"}
	}
}

// WriteJSON writes a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// Write maps err and writes it as a JSON error response.
func Write(w http.ResponseWriter, err error) {
	apiErr := Map(err)
	WriteJSON(w, apiErr.Status, apiErr)
}
