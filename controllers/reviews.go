package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/services"
	"github.com/meinhoongagan/amigos-app/validation"
)

func (h *Handler) CreateReview(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}

	var input services.ReviewInput
	if err := h.bind(c, validation.Review, &input); err != nil {
		return err
	}

	review, err := h.reviews.CreateReview(c.UserContext(), userID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}
