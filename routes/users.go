package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/controllers"
)

func SetupUserRoutes(api fiber.Router, h *controllers.Handler, protected fiber.Handler) {
	users := api.Group("/users")

	users.Get("/:id", h.GetUser)
	users.Patch("/:id", protected, h.UpdateProfile)
	users.Post("/:id/avatar", protected, h.UploadAvatar)
	users.Get("/:userId/bookings", protected, h.GetUserBookings)
	users.Get("/:userId/reviews", h.GetUserReviews)
}
