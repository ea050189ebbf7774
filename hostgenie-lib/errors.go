// ABOUTME: Error types for the HostGenie library
// ABOUTME: Provides typed errors and classifies errors coming from the editor core

package hostgenie

import (
	"errors"
	"fmt"

	"hostgenie-api/core/editor"
	coreerrors "hostgenie-api/core/errors"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeForbidden     ErrorType = "forbidden"
	ErrorTypeMutation      ErrorType = "mutation"
	ErrorTypeGeneration    ErrorType = "generation"
	ErrorTypeClosed        ErrorType = "closed"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeInternal      ErrorType = "internal"
)

// Error represents a library error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error with the given type and message
func NewError(errType ErrorType, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// WithCause returns a copy of the error carrying cause
func (e *Error) WithCause(cause error) *Error {
	c := *e
	c.Cause = cause
	return &c
}

// WithContext returns a copy of the error with key set in its context
func (e *Error) WithContext(key string, value interface{}) *Error {
	c := *e
	c.Context = make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		c.Context[k] = v
	}
	c.Context[key] = value
	return &c
}

var (
	// ErrClientClosed is returned when operations are attempted on a closed client
	ErrClientClosed = NewError(ErrorTypeClosed, "client is closed")

	// ErrNoGenerator is returned when generation is requested without AI keys
	ErrNoGenerator = NewError(ErrorTypeConfiguration, "no generation provider configured")
)

// TypeOf classifies err, including errors returned by the editor core.
// A rejected mutation is ErrorTypeMutation whatever its cause.
func TypeOf(err error) ErrorType {
	var e *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &e):
		return e.Type
	case errors.Is(err, editor.ErrSessionClosed):
		return ErrorTypeClosed
	case coreerrors.IsMutation(err):
		return ErrorTypeMutation
	case coreerrors.IsNotFound(err):
		return ErrorTypeNotFound
	case coreerrors.IsValidation(err):
		return ErrorTypeValidation
	case coreerrors.IsForbidden(err):
		return ErrorTypeForbidden
	case coreerrors.IsExternalAPI(err), errors.Is(err, editor.ErrGenerating):
		return ErrorTypeGeneration
	}
	return ErrorTypeInternal
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return TypeOf(err) == ErrorTypeValidation
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// IsMutationError checks if a mutation could not be applied
func IsMutationError(err error) bool {
	return TypeOf(err) == ErrorTypeMutation
}
