// Package domain provides the salon's core records and canonical error types.
package domain

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// ErrNotFound is wrapped by stores when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrorType represents the category of an API error.
type ErrorType string

const (
	// ErrorTypeInvalidRequest indicates a malformed or invalid request.
	ErrorTypeInvalidRequest ErrorType = "invalid_request"

	// ErrorTypeNotFound indicates a resource was not found.
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeConflict indicates the request clashes with existing state.
	ErrorTypeConflict ErrorType = "conflict"

	// ErrorTypePrecondition indicates an operation is not allowed yet.
	ErrorTypePrecondition ErrorType = "precondition_failed"

	// ErrorTypeUpstream indicates a third-party service failed.
	ErrorTypeUpstream ErrorType = "upstream"

	// ErrorTypeServer indicates an internal server error.
	ErrorTypeServer ErrorType = "server"
)

// ErrorCode provides additional specificity beyond the error type.
type ErrorCode string

const (
	ErrorCodeValidationFailed  ErrorCode = "validation_failed"
	ErrorCodeUnanswered        ErrorCode = "question_unanswered"
	ErrorCodeNotCompleted      ErrorCode = "diagnostic_not_completed"
	ErrorCodeMissingSignature  ErrorCode = "missing_signature"
	ErrorCodeFinalized         ErrorCode = "session_finalized"
	ErrorCodeMissingFields     ErrorCode = "MISSING_FIELDS"
	ErrorCodeNotConfigured     ErrorCode = "SERVER_NOT_CONFIGURED"
	ErrorCodeEmailExists       ErrorCode = "EMAIL_EXISTS"
	ErrorCodeContactNotFound   ErrorCode = "CONTACT_NOT_FOUND"
	ErrorCodeMailjetError      ErrorCode = "MAILJET_ERROR"
	ErrorCodePersistenceFailed ErrorCode = "persistence_failed"
)

// APIError is the canonical error returned by the HTTP surface.
type APIError struct {
	// Type is the category of error
	Type ErrorType `json:"type"`

	// Code is an optional specific error code
	Code ErrorCode `json:"code,omitempty"`

	// Message is the human-readable error message
	Message string `json:"message"`

	// Param is the parameter that caused the error (if applicable)
	Param string `json:"param,omitempty"`

	// Fields carries per-field validation messages.
	Fields FieldErrors `json:"fields,omitempty"`

	// StatusCode is the suggested HTTP status code
	StatusCode int `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// HTTPStatusCode returns the appropriate HTTP status code for this error.
func (e *APIError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}

	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypePrecondition:
		return http.StatusUnprocessableEntity
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewAPIError creates a new API error.
func NewAPIError(errType ErrorType, message string) *APIError {
	return &APIError{
		Type:    errType,
		Message: message,
	}
}

// WithCode adds an error code to the error.
func (e *APIError) WithCode(code ErrorCode) *APIError {
	e.Code = code
	return e
}

// WithParam adds a parameter name to the error.
func (e *APIError) WithParam(param string) *APIError {
	e.Param = param
	return e
}

// WithFields attaches per-field validation messages.
func (e *APIError) WithFields(fields FieldErrors) *APIError {
	e.Fields = fields
	return e
}

// WithStatusCode sets a specific HTTP status code.
func (e *APIError) WithStatusCode(code int) *APIError {
	e.StatusCode = code
	return e
}

// ErrInvalidRequest creates an invalid request error.
func ErrInvalidRequest(message string) *APIError {
	return NewAPIError(ErrorTypeInvalidRequest, message)
}

// ErrResourceNotFound creates a not found error.
func ErrResourceNotFound(message string) *APIError {
	return NewAPIError(ErrorTypeNotFound, message)
}

// ErrConflict creates a conflict error.
func ErrConflict(message string) *APIError {
	return NewAPIError(ErrorTypeConflict, message)
}

// ErrPrecondition creates a precondition error.
func ErrPrecondition(message string) *APIError {
	return NewAPIError(ErrorTypePrecondition, message)
}

// ErrServer creates a server error.
func ErrServer(message string) *APIError {
	return NewAPIError(ErrorTypeServer, message)
}

// ErrValidation wraps field errors in an invalid request error.
func ErrValidation(fields FieldErrors) *APIError {
	return ErrInvalidRequest(fields.Error()).
		WithCode(ErrorCodeValidationFailed).
		WithFields(fields)
}

// FieldErrors maps a field name to a user-facing validation message.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message.
func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Err returns f as an error, or nil when it is empty.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + f[k]
	}
	return strings.Join(parts, "; ")
}
