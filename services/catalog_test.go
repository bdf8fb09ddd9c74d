package services

import (
	"context"
	"testing"

	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/meinhoongagan/amigos-app/models"
	"github.com/meinhoongagan/amigos-app/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchAmigosDerivesRatings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	catalog := NewCatalogService(f.store, nil)
	bookings := NewBookingService(f.store, nil, nil, &recordingMailer{}, "brl")
	b := f.book(t, bookings, 14)

	for _, rating := range []int{5, 3} {
		_, err := f.store.CreateReview(ctx, &models.Review{BookingID: b.ID, ReviewerID: f.client.ID, RevieweeID: f.amigo.ID, Rating: rating})
		require.NoError(t, err)
	}

	profiles, err := catalog.SearchAmigos(ctx, &storage.AmigoFilters{Interests: []string{"Arte"}})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, f.amigo.ID, profiles[0].ID)
	assert.InDelta(t, 4.0, profiles[0].AverageRating, 0.0001)
	assert.Equal(t, 2, profiles[0].ReviewCount)

	none, err := catalog.SearchAmigos(ctx, &storage.AmigoFilters{Location: "Copacabana"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetAmigoDetail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	catalog := NewCatalogService(f.store, nil)

	_, err := catalog.CreateAvailability(ctx, f.amigo.ID, AvailabilityInput{Date: f.day, StartTime: f.at(10), EndTime: f.at(12)})
	require.NoError(t, err)

	detail, err := catalog.GetAmigoDetail(ctx, f.amigo.ID)
	require.NoError(t, err)
	assert.Equal(t, f.amigo.Email, detail.Email)
	assert.Len(t, detail.Availability, 1)
	assert.Empty(t, detail.Reviews)
	assert.Zero(t, detail.AverageRating)

	_, err = catalog.GetAmigoDetail(ctx, f.client.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))

	_, err = catalog.GetAvailability(ctx, 999)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
}

func TestCreateAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	catalog := NewCatalogService(f.store, nil)

	_, err := catalog.CreateAvailability(ctx, f.client.ID, AvailabilityInput{Date: f.day, StartTime: f.at(10), EndTime: f.at(12)})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeForbidden))

	_, err = catalog.CreateAvailability(ctx, f.amigo.ID, AvailabilityInput{UserID: &f.client.ID, Date: f.day, StartTime: f.at(10), EndTime: f.at(12)})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeForbidden))

	_, err = catalog.CreateAvailability(ctx, f.amigo.ID, AvailabilityInput{Date: f.day, StartTime: f.at(12), EndTime: f.at(10)})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))

	windows, err := catalog.GetAvailability(ctx, f.amigo.ID)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestAvailableSlots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	catalog := NewCatalogService(f.store, nil)
	bookings := NewBookingService(f.store, nil, nil, &recordingMailer{}, "brl")

	_, err := catalog.CreateAvailability(ctx, f.amigo.ID, AvailabilityInput{Date: f.day, StartTime: f.at(14), EndTime: f.at(18)})
	require.NoError(t, err)
	f.book(t, bookings, 15)

	slots, err := catalog.AvailableSlots(ctx, f.amigo.ID, f.day)
	require.NoError(t, err)

	var hours []int
	for _, s := range slots {
		hours = append(hours, s.StartTime.Hour())
	}
	assert.Equal(t, []int{14, 16, 17}, hours)

	_, err = catalog.AvailableSlots(ctx, f.client.ID, f.day)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
}
