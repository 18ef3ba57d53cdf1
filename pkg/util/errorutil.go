package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced in API responses.
const (
	CodeMissingField       = "MISSING_FIELD"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeExpiredToken       = "EXPIRED_TOKEN"
	CodeUnexpected         = "UNEXPECTED"
)

// Sentinels for errors.Is checks. DomainError.Is compares codes, so any
// error built with the same code matches regardless of its message.
var (
	ErrMissingField       = NewDomainError(CodeMissingField, "missing required fields", http.StatusBadRequest, nil)
	ErrAlreadyExists      = NewDomainError(CodeAlreadyExists, "already exists", http.StatusBadRequest, nil)
	ErrInvalidCredentials = NewDomainError(CodeInvalidCredentials, "Invalid credentials", http.StatusUnauthorized, nil)
	ErrNotFound           = NewDomainError(CodeNotFound, "not found", http.StatusNotFound, nil)
	ErrInvalidToken       = NewDomainError(CodeInvalidToken, "invalid token", http.StatusUnauthorized, nil)
	ErrExpiredToken       = NewDomainError(CodeExpiredToken, "token has expired", http.StatusUnauthorized, nil)
	ErrUnexpected         = NewDomainError(CodeUnexpected, "unexpected error", http.StatusInternalServerError, nil)
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewMissingField(message string, fields ...string) error {
	var details map[string]any
	if len(fields) > 0 {
		details = map[string]any{"fields": fields}
	}
	return NewDomainError(CodeMissingField, message, http.StatusBadRequest, details)
}

func NewAlreadyExists(message string) error {
	return NewDomainError(CodeAlreadyExists, message, http.StatusBadRequest, nil)
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "Invalid credentials", http.StatusUnauthorized, nil)
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewInvalidToken(message string) error {
	return NewDomainError(CodeInvalidToken, message, http.StatusUnauthorized, nil)
}

func NewExpiredToken() error {
	return NewDomainError(CodeExpiredToken, "token has expired", http.StatusUnauthorized, nil)
}

// NewUnexpected wraps an unrecognized failure. The message is the failure's
// own text, which is what clients see in the 500 body.
func NewUnexpected(err error) error {
	msg := "unexpected error"
	if err != nil {
		msg = err.Error()
	}
	return &DomainError{
		Code:       CodeUnexpected,
		Message:    msg,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewUnexpected(err).(*DomainError)
}
