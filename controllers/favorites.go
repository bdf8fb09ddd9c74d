package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/validation"
)

func (h *Handler) GetFavorites(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}

	amigos, err := h.accounts.ListFavorites(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(amigos)
}

func (h *Handler) AddFavorite(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}

	var input struct {
		AmigoID uint `json:"amigoId"`
	}
	if err := h.bind(c, validation.Favorite, &input); err != nil {
		return err
	}

	fav, err := h.accounts.AddFavorite(c.UserContext(), userID, input.AmigoID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fav)
}

func (h *Handler) RemoveFavorite(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}
	amigoID, err := paramID(c, "amigoId")
	if err != nil {
		return err
	}

	if err := h.accounts.RemoveFavorite(c.UserContext(), userID, amigoID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
