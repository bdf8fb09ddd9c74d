package apperrors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeValidation   ErrorType = "VALIDATION"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeInternal     ErrorType = "INTERNAL"
	// ErrorTypeExternal indicates a failure of an upstream service (payments, uploads)
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Fields  []FieldError
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

func NewValidationError(message string, fields ...FieldError) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message, Fields: fields}
}

func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Type: ErrorTypeForbidden, Message: message}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

func NewExternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeExternal, Message: message, Err: err}
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeInternal when err
// is not an *AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// Is reports whether err is an *AppError of the given type.
func Is(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}
