package utils

import "github.com/meinhoongagan/amigos-app/apperrors"

// ErrorResponse is a struct for error response
type ErrorResponse struct {
	Message string                 `json:"message"`
	Error   string                 `json:"error,omitempty"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}
