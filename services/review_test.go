package services

import (
	"context"
	"testing"

	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	bookings := NewBookingService(f.store, nil, nil, &recordingMailer{}, "brl")
	reviews := NewReviewService(f.store)
	b := f.book(t, bookings, 14)

	review, err := reviews.CreateReview(ctx, f.client.ID, ReviewInput{BookingID: b.ID, RevieweeID: f.amigo.ID, Rating: 5, Comment: "Ótima companhia"})
	require.NoError(t, err)
	assert.Equal(t, f.client.ID, review.ReviewerID)

	back, err := reviews.CreateReview(ctx, f.amigo.ID, ReviewInput{BookingID: b.ID, RevieweeID: f.client.ID, Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, f.amigo.ID, back.ReviewerID)

	listed, err := reviews.ListReviewsForUser(ctx, f.amigo.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	tests := []struct {
		name     string
		actor    uint
		in       ReviewInput
		wantType apperrors.ErrorType
	}{
		{"unknown booking", f.client.ID, ReviewInput{BookingID: 999, RevieweeID: f.amigo.ID, Rating: 5}, apperrors.ErrorTypeNotFound},
		{"unknown reviewee", f.client.ID, ReviewInput{BookingID: b.ID, RevieweeID: 999, Rating: 5}, apperrors.ErrorTypeNotFound},
		{"reviewee outside booking", f.client.ID, ReviewInput{BookingID: b.ID, RevieweeID: f.stranger.ID, Rating: 5}, apperrors.ErrorTypeValidation},
		{"self review", f.client.ID, ReviewInput{BookingID: b.ID, RevieweeID: f.client.ID, Rating: 5}, apperrors.ErrorTypeValidation},
		{"stranger reviewer", f.stranger.ID, ReviewInput{BookingID: b.ID, RevieweeID: f.amigo.ID, Rating: 5}, apperrors.ErrorTypeValidation},
		{"posting as someone else", f.stranger.ID, ReviewInput{BookingID: b.ID, ReviewerID: &f.client.ID, RevieweeID: f.amigo.ID, Rating: 5}, apperrors.ErrorTypeForbidden},
		{"rating out of range", f.client.ID, ReviewInput{BookingID: b.ID, RevieweeID: f.amigo.ID, Rating: 9}, apperrors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reviews.CreateReview(ctx, tt.actor, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
		})
	}

	_, err = reviews.ListReviewsForUser(ctx, 999)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
}
