package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/meinhoongagan/amigos-app/controllers"
	"github.com/meinhoongagan/amigos-app/middleware"
)

// Setup registers every API route under /api.
func Setup(app *fiber.App, h *controllers.Handler, jwtSecret string) {
	api := app.Group("/api")
	protected := middleware.Protected(jwtSecret)

	api.Get("/health", h.Health)

	SetupAuthRoutes(api, h, protected)
	SetupUserRoutes(api, h, protected)
	SetupAmigoRoutes(api, h, protected)
	SetupBookingRoutes(api, h, protected)
	SetupPaymentRoutes(api, h, protected)
	SetupFavoriteRoutes(api, h, protected)
}

// NewApp builds the fiber application with the shared middleware stack and
// every API route.
func NewApp(h *controllers.Handler, jwtSecret, corsOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "amigos-api",
		ErrorHandler: controllers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
	}))

	Setup(app, h, jwtSecret)
	return app
}
