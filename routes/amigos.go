package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/controllers"
	"github.com/meinhoongagan/amigos-app/middleware"
)

// SetupAmigoRoutes configures the catalog and calendar routes
func SetupAmigoRoutes(api fiber.Router, h *controllers.Handler, protected fiber.Handler) {
	amigos := api.Group("/amigos")
	amigos.Get("/", h.SearchAmigos)
	amigos.Get("/:id", h.GetAmigo)
	amigos.Get("/:id/availability", h.GetAmigoAvailability)
	amigos.Get("/:id/slots", h.GetAvailableSlots)

	api.Post("/availability", protected, middleware.RequireAmigo(), h.CreateAvailability)
}
