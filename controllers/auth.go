package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/services"
	"github.com/meinhoongagan/amigos-app/validation"
)

// Register handles user registration
func (h *Handler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := h.bind(c, validation.Register, &input); err != nil {
		return err
	}

	user, err := h.accounts.Register(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles user authentication
func (h *Handler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := h.bind(c, validation.Login, &input); err != nil {
		return err
	}

	result, err := h.accounts.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// RefreshToken generates a new access token using a refresh token
func (h *Handler) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := h.bind(c, validation.Refresh, &input); err != nil {
		return err
	}

	token, err := h.accounts.Refresh(c.UserContext(), input.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token})
}

// Me returns the current user's profile
func (h *Handler) Me(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.GetUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
