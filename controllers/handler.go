package controllers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/meinhoongagan/amigos-app/middleware"
	"github.com/meinhoongagan/amigos-app/services"
	"github.com/meinhoongagan/amigos-app/validation"
)

// Handler holds the services behind the HTTP API.
type Handler struct {
	accounts  *services.AccountService
	catalog   *services.CatalogService
	bookings  *services.BookingService
	reviews   *services.ReviewService
	validator *validation.Validator
}

func NewHandler(
	accounts *services.AccountService,
	catalog *services.CatalogService,
	bookings *services.BookingService,
	reviews *services.ReviewService,
	validator *validation.Validator,
) *Handler {
	return &Handler{
		accounts:  accounts,
		catalog:   catalog,
		bookings:  bookings,
		reviews:   reviews,
		validator: validator,
	}
}

// bind validates the body against schema and decodes it into dst.
func (h *Handler) bind(c *fiber.Ctx, schema string, dst interface{}) error {
	body := c.Body()
	if len(body) == 0 {
		body = []byte("{}")
	}

	if err := h.validator.Validate(c.UserContext(), schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.NewValidationError("Validation error",
			apperrors.FieldError{Path: "body", Message: err.Error()})
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("Validation error",
			apperrors.FieldError{Path: name, Message: "must be a positive integer"})
	}
	return uint(id), nil
}

func actor(c *fiber.Ctx) (uint, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, apperrors.NewUnauthorizedError("Authentication required")
	}
	return id, nil
}

// Health is the liveness probe.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
