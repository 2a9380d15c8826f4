package domain

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name:     "error with type and message",
			err:      &APIError{Type: ErrorTypeInvalidRequest, Message: "bad request"},
			expected: "invalid_request: bad request",
		},
		{
			name:     "error with type, code, and message",
			err:      &APIError{Type: ErrorTypeConflict, Code: ErrorCodeEmailExists, Message: "already subscribed"},
			expected: "conflict (EMAIL_EXISTS): already subscribed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAPIError_HTTPStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected int
	}{
		{"invalid request", &APIError{Type: ErrorTypeInvalidRequest}, http.StatusBadRequest},
		{"not found", &APIError{Type: ErrorTypeNotFound}, http.StatusNotFound},
		{"conflict", &APIError{Type: ErrorTypeConflict}, http.StatusConflict},
		{"precondition", &APIError{Type: ErrorTypePrecondition}, http.StatusUnprocessableEntity},
		{"upstream", &APIError{Type: ErrorTypeUpstream}, http.StatusBadGateway},
		{"server", &APIError{Type: ErrorTypeServer}, http.StatusInternalServerError},
		{"unknown error type", &APIError{Type: ErrorType("unknown")}, http.StatusInternalServerError},
		{"explicit status code", &APIError{Type: ErrorTypeInvalidRequest, StatusCode: http.StatusTeapot}, http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatusCode(); got != tt.expected {
				t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestAPIError_Builders(t *testing.T) {
	err := ErrInvalidRequest("invalid value").
		WithCode(ErrorCodeValidationFailed).
		WithParam("email").
		WithStatusCode(http.StatusUnprocessableEntity)

	if err.Code != ErrorCodeValidationFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrorCodeValidationFailed)
	}
	if err.Param != "email" {
		t.Errorf("Param = %q, want %q", err.Param, "email")
	}
	if err.HTTPStatusCode() != http.StatusUnprocessableEntity {
		t.Errorf("HTTPStatusCode() = %d, want %d", err.HTTPStatusCode(), http.StatusUnprocessableEntity)
	}
}

func TestErrValidation(t *testing.T) {
	fields := FieldErrors{"email": "Email invalide", "first_name": "Prénom requis"}
	err := ErrValidation(fields)

	if err.HTTPStatusCode() != http.StatusBadRequest {
		t.Errorf("HTTPStatusCode() = %d, want 400", err.HTTPStatusCode())
	}
	if err.Message != "email: Email invalide; first_name: Prénom requis" {
		t.Errorf("Message = %q", err.Message)
	}

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("Marshal() error = %v", jerr)
	}
	if !strings.Contains(string(data), `"fields":{"email":"Email invalide"`) {
		t.Errorf("Marshal() = %s, want fields object", data)
	}
	if strings.Contains(string(data), "StatusCode") {
		t.Errorf("Marshal() leaked status code: %s", data)
	}
}

func TestFieldErrors(t *testing.T) {
	errs := FieldErrors{}
	if errs.Err() != nil {
		t.Error("Err() on empty FieldErrors should be nil")
	}

	errs.Add("email", "Email requis")
	errs.Add("email", "Email invalide")
	if errs["email"] != "Email requis" {
		t.Errorf("Add() overwrote the first message: %q", errs["email"])
	}
	if errs.Err() == nil {
		t.Error("Err() should be non-nil once a field is recorded")
	}
}
