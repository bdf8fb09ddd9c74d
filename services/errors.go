package services

import (
	"errors"

	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/meinhoongagan/amigos-app/models"
	"github.com/meinhoongagan/amigos-app/storage"
)

// storeError translates storage sentinels into AppErrors. notFoundMsg is
// used for a plain ErrNotFound.
func storeError(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.NewNotFoundError(notFoundMsg)
	case errors.Is(err, storage.ErrAmigoNotFound):
		return apperrors.NewNotFoundError("Amigo not found")
	case errors.Is(err, storage.ErrClientNotFound):
		return apperrors.NewNotFoundError("Client not found")
	case errors.Is(err, storage.ErrSlotTaken):
		return apperrors.NewConflictError("This time slot is already booked")
	case errors.Is(err, storage.ErrDuplicateEmail):
		return apperrors.NewValidationError("Email already registered",
			apperrors.FieldError{Path: "email", Message: "email already registered"})
	case errors.Is(err, models.ErrInvalidTransition):
		return apperrors.NewConflictError(err.Error())
	case errors.Is(err, models.ErrInvalidWindow):
		return apperrors.NewValidationError("Validation error",
			apperrors.FieldError{Path: "endTime", Message: err.Error()})
	case errors.Is(err, models.ErrInvalidRating):
		return apperrors.NewValidationError("Validation error",
			apperrors.FieldError{Path: "rating", Message: err.Error()})
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewInternalError(err.Error(), err)
}
