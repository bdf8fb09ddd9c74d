package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/meinhoongagan/amigos-app/models"
	"github.com/meinhoongagan/amigos-app/validation"
)

func (h *Handler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.accounts.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var update models.ProfileUpdate
	if err := h.bind(c, validation.Profile, &update); err != nil {
		return err
	}

	user, err := h.accounts.UpdateProfile(c.UserContext(), userID, id, update)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UploadAvatar accepts a multipart "avatar" file.
func (h *Handler) UploadAvatar(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return apperrors.NewValidationError("Validation error",
			apperrors.FieldError{Path: "avatar", Message: "avatar file is required"})
	}

	f, err := file.Open()
	if err != nil {
		return apperrors.NewInternalError("Failed to open avatar", err)
	}
	defer f.Close()

	user, err := h.accounts.UploadAvatar(c.UserContext(), userID, id, f)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *Handler) GetUserBookings(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	bookings, err := h.bookings.ListBookingsForUser(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(bookings)
}

func (h *Handler) GetUserReviews(c *fiber.Ctx) error {
	id, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	reviews, err := h.reviews.ListReviewsForUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(reviews)
}
