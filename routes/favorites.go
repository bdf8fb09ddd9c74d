package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/controllers"
)

func SetupFavoriteRoutes(api fiber.Router, h *controllers.Handler, protected fiber.Handler) {
	favorites := api.Group("/favorites", protected)
	favorites.Get("/", h.GetFavorites)
	favorites.Post("/", h.AddFavorite)
	favorites.Delete("/:amigoId", h.RemoveFavorite)
}
