package errors

import (
	"fmt"
	"net/http"
)

// FieldError describes a single violated input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the JSON error body returned by the auth gateway. Status is the
// HTTP status to respond with and is not serialized. Message is either a
// string or, for validation failures, a list of FieldError.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"-"`
	Message any    `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Message)
}

// Error codes used internally for logging and tests. They never appear in
// response bodies.
const (
	CodeValidation         = "validation_error"
	CodeInvalidCredentials = "invalid_credentials"
	CodeConflict           = "conflict"
	CodeUnauthorized       = "unauthorized"
	CodeInternal           = "internal_error"
)

// NewValidation reports all violated fields of a request, not just the first.
func NewValidation(fields []FieldError) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: fields,
	}
}

// NewInvalidCredentials covers both "unknown email" and "wrong password".
// The body is deliberately identical for the two cases so the response does
// not reveal whether an email is registered.
func NewInvalidCredentials() *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidCredentials,
		Message: "Invalid Credentials",
	}
}

// NewConflict is returned when a registration collides with an existing email.
func NewConflict(description string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    CodeConflict,
		Message: description,
	}
}

// NewUnauthorized is returned by the token guard. No detail beyond the marker.
func NewUnauthorized() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Code:    CodeUnauthorized,
		Message: "unauthorized",
	}
}

// NewInternal hides server-side failures behind a generic message. The full
// error detail goes to the log, never to the client.
func NewInternal() *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "Something went wrong",
	}
}
