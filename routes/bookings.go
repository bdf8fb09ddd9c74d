package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/controllers"
)

// SetupBookingRoutes configures all booking and review routes
func SetupBookingRoutes(api fiber.Router, h *controllers.Handler, protected fiber.Handler) {
	bookings := api.Group("/bookings", protected)
	bookings.Post("/", h.CreateBooking)
	bookings.Get("/", h.GetMyBookings)
	bookings.Get("/:id", h.GetBooking)
	bookings.Patch("/:id/status", h.UpdateBookingStatus)

	api.Post("/reviews", protected, h.CreateReview)
}
