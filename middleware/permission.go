package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/apperrors"
)

// RequireAmigo only lets amigo accounts through. Must run after Protected.
func RequireAmigo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := UserID(c); !ok {
			return apperrors.NewUnauthorizedError("Authentication required")
		}
		if !IsAmigo(c) {
			return apperrors.NewForbiddenError("Only amigos can perform this action")
		}
		return c.Next()
	}
}
