package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/validation"
)

// StripeSignatureHeader carries the webhook signature.
const StripeSignatureHeader = "Stripe-Signature"

func (h *Handler) CreatePaymentIntent(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}

	var input struct {
		BookingID uint `json:"bookingId"`
	}
	if err := h.bind(c, validation.PaymentIntent, &input); err != nil {
		return err
	}

	secret, err := h.bookings.CreatePaymentIntent(c.UserContext(), userID, input.BookingID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"clientSecret": secret})
}

// PaymentWebhook receives processor events. The raw body is needed for the
// signature check, so it is never re-encoded.
func (h *Handler) PaymentWebhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)

	if err := h.bookings.HandlePaymentWebhook(c.UserContext(), payload, c.Get(StripeSignatureHeader)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"received": true})
}
