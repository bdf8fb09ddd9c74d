package models

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestProfileUpdateApply(t *testing.T) {
	u := &User{Name: "Ana", Bio: "old", Interests: pq.StringArray{"art"}}
	name := "Ana Silva"
	rate := 170
	interests := []string{"music", "food"}

	ProfileUpdate{Name: &name, HourlyRate: &rate, Interests: &interests}.Apply(u)

	assert.Equal(t, "Ana Silva", u.Name)
	assert.Equal(t, "old", u.Bio)
	assert.Equal(t, pq.StringArray{"music", "food"}, u.Interests)
	if assert.NotNil(t, u.HourlyRate) {
		assert.Equal(t, 170, *u.HourlyRate)
	}

	rate = 1
	assert.Equal(t, 170, *u.HourlyRate)
}

func TestHasInterest(t *testing.T) {
	u := &User{Interests: pq.StringArray{"art", "music"}}
	assert.True(t, u.HasInterest([]string{"sports", "music"}))
	assert.False(t, u.HasInterest([]string{"sports"}))
	assert.False(t, u.HasInterest(nil))
}

func TestAvailabilityValidate(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	assert.NoError(t, (&Availability{StartTime: start, EndTime: start.Add(time.Hour)}).Validate())
	assert.ErrorIs(t, (&Availability{StartTime: start, EndTime: start}).Validate(), ErrInvalidWindow)
}

func TestReviewRatingBounds(t *testing.T) {
	assert.ErrorIs(t, (&Review{Rating: 0}).BeforeCreate(nil), ErrInvalidRating)
	assert.ErrorIs(t, (&Review{Rating: 6}).BeforeCreate(nil), ErrInvalidRating)
	assert.NoError(t, (&Review{Rating: 5}).BeforeCreate(nil))
}
