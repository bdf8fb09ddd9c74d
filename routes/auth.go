package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/controllers"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(api fiber.Router, h *controllers.Handler, protected fiber.Handler) {
	auth := api.Group("/auth")

	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.RefreshToken)

	auth.Get("/me", protected, h.Me)
}
