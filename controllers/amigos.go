package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/meinhoongagan/amigos-app/services"
	"github.com/meinhoongagan/amigos-app/storage"
	"github.com/meinhoongagan/amigos-app/utils"
	"github.com/meinhoongagan/amigos-app/validation"
)

// SearchAmigos handles GET /amigos?location=&interest=&date=. interest may be
// repeated or comma separated.
func (h *Handler) SearchAmigos(c *fiber.Ctx) error {
	filters := &storage.AmigoFilters{
		Location: strings.TrimSpace(c.Query("location")),
	}

	args := c.Context().QueryArgs()
	for _, key := range []string{"interest", "interests"} {
		for _, raw := range args.PeekMulti(key) {
			for _, interest := range strings.Split(string(raw), ",") {
				if interest = strings.TrimSpace(interest); interest != "" {
					filters.Interests = append(filters.Interests, interest)
				}
			}
		}
	}

	if date := c.Query("date"); date != "" {
		day, err := utils.ParseDay(date, h.catalog.Location())
		if err != nil {
			return apperrors.NewValidationError("Validation error",
				apperrors.FieldError{Path: "date", Message: err.Error()})
		}
		filters.Date = &day
	}

	amigos, err := h.catalog.SearchAmigos(c.UserContext(), filters)
	if err != nil {
		return err
	}
	return c.JSON(amigos)
}

func (h *Handler) GetAmigo(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.catalog.GetAmigoDetail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

func (h *Handler) GetAmigoAvailability(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	windows, err := h.catalog.GetAvailability(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(windows)
}

// GetAvailableSlots returns the free one-hour slots of an amigo on ?date=.
func (h *Handler) GetAvailableSlots(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	day, err := utils.ParseDay(c.Query("date"), h.catalog.Location())
	if err != nil {
		return apperrors.NewValidationError("Validation error",
			apperrors.FieldError{Path: "date", Message: err.Error()})
	}

	slots, err := h.catalog.AvailableSlots(c.UserContext(), id, day)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"date":  day.In(h.catalog.Location()).Format("2006-01-02"),
		"slots": slots,
	})
}

func (h *Handler) CreateAvailability(c *fiber.Ctx) error {
	userID, err := actor(c)
	if err != nil {
		return err
	}

	var input services.AvailabilityInput
	if err := h.bind(c, validation.Availability, &input); err != nil {
		return err
	}

	created, err := h.catalog.CreateAvailability(c.UserContext(), userID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}
