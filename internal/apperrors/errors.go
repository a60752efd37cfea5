package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies failures by how they surface to callers.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeAuth       ErrorType = "auth"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeDependency ErrorType = "dependency"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError carries a machine-readable code alongside the human message.
// Field is set for validation errors that point at a single input.
type AppError struct {
	Type     ErrorType
	Code     string
	Message  string
	Field    string
	Internal error
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches another AppError with the same type and code.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// LogFields returns slog key/value pairs describing the error.
func (e *AppError) LogFields() []any {
	fields := []any{
		"error_type", string(e.Type),
		"error_code", e.Code,
		"error_message", e.Message,
	}
	if e.Field != "" {
		fields = append(fields, "field", e.Field)
	}
	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}
	return fields
}

func New(errorType ErrorType, code string, message string) *AppError {
	return &AppError{Type: errorType, Code: code, Message: message}
}

func Wrap(err error, errorType ErrorType, code string, message string) *AppError {
	return &AppError{Type: errorType, Code: code, Message: message, Internal: err}
}

func NewValidationError(field string, code string, message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Code: code, Message: message, Field: field}
}

func NewDependencyError(err error, dependency string) *AppError {
	return Wrap(err, ErrorTypeDependency, dependency+"_unavailable", dependency+" operation failed")
}

func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "internal", "internal error")
}

var (
	ErrUnauthorized = New(ErrorTypeAuth, "unauthorized", "unauthorized")
	ErrNotFound     = New(ErrorTypeNotFound, "not_found", "record not found")
)

// As extracts the AppError from err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// TypeOf returns the error type, treating foreign errors as internal.
func TypeOf(err error) ErrorType {
	if appErr, ok := As(err); ok {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// HTTPStatus maps an error to the response status used by the API.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch TypeOf(err) {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeAuth:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsUserFacing reports whether the message may be shown verbatim to the end user.
func IsUserFacing(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeDependency, ErrorTypeInternal:
		return false
	default:
		return true
	}
}
