package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/meinhoongagan/amigos-app/models"
	"github.com/meinhoongagan/amigos-app/services"
	"github.com/meinhoongagan/amigos-app/validation"
)

func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}

	var input services.BookingInput
	if err := h.bind(c, validation.Booking, &input); err != nil {
		return err
	}

	booking, err := h.bookings.CreateBooking(c.UserContext(), userID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// GetMyBookings lists the caller's bookings.
func (h *Handler) GetMyBookings(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookings.ListBookingsForUser(c.UserContext(), userID, userID)
	if err != nil {
		return err
	}
	return c.JSON(bookings)
}

func (h *Handler) GetBooking(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.bookings.GetBooking(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(booking)
}

func (h *Handler) UpdateBookingStatus(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := h.bind(c, validation.BookingStatus, &input); err != nil {
		return err
	}
	status, err := models.ParseBookingStatus(input.Status)
	if err != nil {
		return apperrors.NewValidationError("Validation error",
			apperrors.FieldError{Path: "status", Message: err.Error()})
	}

	booking, err := h.bookings.UpdateBookingStatus(c.UserContext(), userID, id, status)
	if err != nil {
		return err
	}
	return c.JSON(booking)
}
