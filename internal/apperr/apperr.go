// Package apperr defines the domain error taxonomy and its HTTP mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a domain error that carries the HTTP status it maps to.
// Fields is populated only for validation errors.
type Error struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"errors,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(resource, field string, value any) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s not found with %s: '%v'", resource, field, value),
	}
}

func InvalidCredentials() *Error {
	return &Error{
		Status:  http.StatusUnauthorized,
		Message: "Invalid credentials",
	}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

func Duplicate(resource, field string, value any) *Error {
	return &Error{
		Status:  http.StatusConflict,
		Message: fmt.Sprintf("%s already exists with %s: '%v'", resource, field, value),
	}
}

func InvalidState(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func InvalidToken(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func Validation(fields map[string]string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// From extracts an *Error from err, unwrapping as needed.
func From(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
