package services

import (
	"context"
	"errors"
	"time"

	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/meinhoongagan/amigos-app/models"
	"github.com/meinhoongagan/amigos-app/storage"
	"github.com/meinhoongagan/amigos-app/utils"
)

// CatalogService serves amigo search, profiles and calendars.
type CatalogService struct {
	store storage.Storage
	loc   *time.Location
}

func NewCatalogService(store storage.Storage, loc *time.Location) *CatalogService {
	if loc == nil {
		loc = time.UTC
	}
	return &CatalogService{store: store, loc: loc}
}

type AvailabilityInput struct {
	UserID    *uint     `json:"userId"`
	Date      time.Time `json:"date"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// SearchAmigos returns the amigos matching filters with their review
// aggregates attached.
func (s *CatalogService) SearchAmigos(ctx context.Context, filters *storage.AmigoFilters) ([]models.AmigoProfile, error) {
	amigos, err := s.store.GetAmigos(ctx, filters)
	if err != nil {
		return nil, storeError(err, "Amigo not found")
	}

	profiles := make([]models.AmigoProfile, 0, len(amigos))
	for _, a := range amigos {
		p, err := s.profile(ctx, a)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, nil
}

func (s *CatalogService) GetAmigoDetail(ctx context.Context, id uint) (*models.AmigoDetail, error) {
	amigo, err := s.store.GetAmigoByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Amigo not found")
	}

	p, err := s.profile(ctx, *amigo)
	if err != nil {
		return nil, err
	}
	windows, err := s.store.GetAvailabilityForUser(ctx, id)
	if err != nil {
		return nil, storeError(err, "Amigo not found")
	}
	reviews, err := s.store.GetReviewsForUser(ctx, id)
	if err != nil {
		return nil, storeError(err, "Amigo not found")
	}

	return &models.AmigoDetail{AmigoProfile: *p, Availability: windows, Reviews: reviews}, nil
}

func (s *CatalogService) profile(ctx context.Context, u models.User) (*models.AmigoProfile, error) {
	reviews, err := s.store.GetReviewsForUser(ctx, u.ID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	avg, err := s.store.GetAverageRatingForUser(ctx, u.ID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return &models.AmigoProfile{User: u, AverageRating: avg, ReviewCount: len(reviews)}, nil
}

func (s *CatalogService) GetAvailability(ctx context.Context, amigoID uint) ([]models.Availability, error) {
	if _, err := s.store.GetAmigoByID(ctx, amigoID); err != nil {
		return nil, storeError(err, "Amigo not found")
	}
	windows, err := s.store.GetAvailabilityForUser(ctx, amigoID)
	if err != nil {
		return nil, storeError(err, "Amigo not found")
	}
	return windows, nil
}

// CreateAvailability adds a window to the calendar of the acting amigo.
func (s *CatalogService) CreateAvailability(ctx context.Context, actorID uint, in AvailabilityInput) (*models.Availability, error) {
	if in.UserID != nil && *in.UserID != actorID {
		return nil, apperrors.NewForbiddenError("You can only manage your own availability")
	}

	if _, err := s.store.GetAmigoByID(ctx, actorID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewForbiddenError("Only amigos can publish availability")
		}
		return nil, storeError(err, "Amigo not found")
	}

	created, err := s.store.CreateAvailability(ctx, &models.Availability{
		UserID:    actorID,
		Date:      in.Date.UTC(),
		StartTime: in.StartTime.UTC(),
		EndTime:   in.EndTime.UTC(),
	})
	if err != nil {
		return nil, storeError(err, "Amigo not found")
	}
	return created, nil
}

// AvailableSlots lists the free one-hour slots of an amigo on day.
func (s *CatalogService) AvailableSlots(ctx context.Context, amigoID uint, day time.Time) ([]utils.Slot, error) {
	windows, err := s.GetAvailability(ctx, amigoID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.store.GetBookingsByAmigo(ctx, amigoID)
	if err != nil {
		return nil, storeError(err, "Amigo not found")
	}
	return utils.HourlySlots(day, windows, bookings, s.loc), nil
}

// Location is the timezone used for calendar-day matching.
func (s *CatalogService) Location() *time.Location {
	return s.loc
}
