package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/controllers"
)

// SetupPaymentRoutes configures payment intent creation and the processor
// webhook. The webhook is authenticated by its signature, not by JWT.
func SetupPaymentRoutes(api fiber.Router, h *controllers.Handler, protected fiber.Handler) {
	api.Post("/create-payment-intent", protected, h.CreatePaymentIntent)
	api.Post("/payment-webhooks", h.PaymentWebhook)
}
