package controllers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/meinhoongagan/amigos-app/middleware"
	"github.com/meinhoongagan/amigos-app/utils"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the fiber error handler translating AppErrors into HTTP
// responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(utils.ErrorResponse{
			Message: fe.Message,
			Error:   http.StatusText(fe.Code),
		})
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError(err.Error(), err)
	}

	status := StatusFor(appErr.Type)
	if status >= fiber.StatusInternalServerError {
		log.Error().
			Err(appErr.Err).
			Str("request_id", middleware.RequestID(c)).
			Str("type", string(appErr.Type)).
			Msg(appErr.Message)
	}

	return c.Status(status).JSON(utils.ErrorResponse{
		Message: appErr.Message,
		Error:   http.StatusText(status),
		Errors:  appErr.Fields,
	})
}

// StatusFor maps an error type to its HTTP status code.
func StatusFor(t apperrors.ErrorType) int {
	switch t {
	case apperrors.ErrorTypeValidation:
		return fiber.StatusBadRequest
	case apperrors.ErrorTypeUnauthorized:
		return fiber.StatusUnauthorized
	case apperrors.ErrorTypeForbidden:
		return fiber.StatusForbidden
	case apperrors.ErrorTypeNotFound:
		return fiber.StatusNotFound
	case apperrors.ErrorTypeConflict:
		return fiber.StatusConflict
	case apperrors.ErrorTypeExternal:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
