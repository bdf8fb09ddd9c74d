package storage

import (
	"context"
	"testing"
	"time"

	"github.com/meinhoongagan/amigos-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStorageSuite exercises the behaviour both backends must share. newStore
// must return an empty store.
func runStorageSuite(t *testing.T, newStore func(t *testing.T) Storage) {
	ctx := context.Background()
	day := time.Date(2030, 5, 20, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

	createAmigo := func(t *testing.T, s Storage, email, location string, interests ...string) *models.User {
		rate := 100
		u, err := s.CreateUser(ctx, &models.User{
			Email: email, Username: email, Password: "hash", Name: email,
			Location: location, IsAmigo: true, Interests: interests, HourlyRate: &rate,
		})
		require.NoError(t, err)
		return u
	}
	createClient := func(t *testing.T, s Storage, email string) *models.User {
		u, err := s.CreateUser(ctx, &models.User{Email: email, Username: email, Password: "hash", Name: email})
		require.NoError(t, err)
		return u
	}

	t.Run("duplicate email", func(t *testing.T) {
		s := newStore(t)
		createClient(t, s, "dup@example.com")
		_, err := s.CreateUser(ctx, &models.User{Email: "dup@example.com", Username: "x", Password: "hash", Name: "x"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("unknown user", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetUser(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("amigo filters", func(t *testing.T) {
		s := newStore(t)
		ana := createAmigo(t, s, "ana@example.com", "Pinheiros, São Paulo", "Arte", "Música")
		carlos := createAmigo(t, s, "carlos@example.com", "Vila Madalena, São Paulo", "Esportes")
		createClient(t, s, "client@example.com")

		_, err := s.CreateAvailability(ctx, &models.Availability{UserID: carlos.ID, Date: day, StartTime: at(10), EndTime: at(12)})
		require.NoError(t, err)

		all, err := s.GetAmigos(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 2)
		for _, u := range all {
			assert.True(t, u.IsAmigo)
		}

		byLocation, err := s.GetAmigos(ctx, &AmigoFilters{Location: "pinheiros"})
		require.NoError(t, err)
		require.Len(t, byLocation, 1)
		assert.Equal(t, ana.ID, byLocation[0].ID)

		byInterest, err := s.GetAmigos(ctx, &AmigoFilters{Interests: []string{"Esportes", "Cinema"}})
		require.NoError(t, err)
		require.Len(t, byInterest, 1)
		assert.Equal(t, carlos.ID, byInterest[0].ID)

		byDate, err := s.GetAmigos(ctx, &AmigoFilters{Date: &day})
		require.NoError(t, err)
		require.Len(t, byDate, 1)
		assert.Equal(t, carlos.ID, byDate[0].ID)

		none, err := s.GetAmigos(ctx, &AmigoFilters{Location: "Rio"})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("get amigo rejects clients", func(t *testing.T) {
		s := newStore(t)
		client := createClient(t, s, "client@example.com")
		_, err := s.GetAmigoByID(ctx, client.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("booking references", func(t *testing.T) {
		s := newStore(t)
		amigo := createAmigo(t, s, "amigo@example.com", "SP")
		client := createClient(t, s, "client@example.com")

		_, err := s.CreateBooking(ctx, &models.Booking{ClientID: client.ID, AmigoID: 999, Date: day, StartTime: at(10), EndTime: at(11), Location: "x", TotalAmount: 110})
		assert.ErrorIs(t, err, ErrAmigoNotFound)

		_, err = s.CreateBooking(ctx, &models.Booking{ClientID: 999, AmigoID: amigo.ID, Date: day, StartTime: at(10), EndTime: at(11), Location: "x", TotalAmount: 110})
		assert.ErrorIs(t, err, ErrClientNotFound)

		_, err = s.CreateBooking(ctx, &models.Booking{ClientID: client.ID, AmigoID: client.ID, Date: day, StartTime: at(10), EndTime: at(11), Location: "x", TotalAmount: 110})
		assert.ErrorIs(t, err, ErrAmigoNotFound)

		bookings, err := s.GetBookingsByClient(ctx, client.ID)
		require.NoError(t, err)
		assert.Empty(t, bookings)
	})

	t.Run("booking overlap", func(t *testing.T) {
		s := newStore(t)
		amigo := createAmigo(t, s, "amigo@example.com", "SP")
		client := createClient(t, s, "client@example.com")

		first, err := s.CreateBooking(ctx, &models.Booking{ClientID: client.ID, AmigoID: amigo.ID, Date: day, StartTime: at(10), EndTime: at(12), Location: "x", TotalAmount: 110})
		require.NoError(t, err)
		assert.Equal(t, models.BookingPending, first.Status)
		assert.Equal(t, models.PaymentPending, first.PaymentStatus)
		assert.Nil(t, first.StripePaymentIntentID)

		_, err = s.CreateBooking(ctx, &models.Booking{ClientID: client.ID, AmigoID: amigo.ID, Date: day, StartTime: at(11), EndTime: at(13), Location: "x", TotalAmount: 110})
		assert.ErrorIs(t, err, ErrSlotTaken)

		_, err = s.CreateBooking(ctx, &models.Booking{ClientID: client.ID, AmigoID: amigo.ID, Date: day, StartTime: at(12), EndTime: at(13), Location: "x", TotalAmount: 110})
		assert.NoError(t, err)

		_, err = s.UpdateBookingStatus(ctx, first.ID, models.BookingCancelled)
		require.NoError(t, err)
		_, err = s.CreateBooking(ctx, &models.Booking{ClientID: client.ID, AmigoID: amigo.ID, Date: day, StartTime: at(10), EndTime: at(11), Location: "x", TotalAmount: 110})
		assert.NoError(t, err)
	})

	t.Run("payment update merges intent", func(t *testing.T) {
		s := newStore(t)
		amigo := createAmigo(t, s, "amigo@example.com", "SP")
		client := createClient(t, s, "client@example.com")
		b, err := s.CreateBooking(ctx, &models.Booking{ClientID: client.ID, AmigoID: amigo.ID, Date: day, StartTime: at(10), EndTime: at(11), Location: "x", TotalAmount: 110})
		require.NoError(t, err)

		updated, err := s.UpdateBookingPaymentStatus(ctx, b.ID, models.PaymentPending, "pi_1")
		require.NoError(t, err)
		require.NotNil(t, updated.StripePaymentIntentID)
		assert.Equal(t, "pi_1", *updated.StripePaymentIntentID)

		updated, err = s.UpdateBookingPaymentStatus(ctx, b.ID, models.PaymentPaid, "")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
		assert.Equal(t, "pi_1", *updated.StripePaymentIntentID)

		_, err = s.UpdateBookingPaymentStatus(ctx, b.ID, models.PaymentFailed, "")
		assert.ErrorIs(t, err, models.ErrInvalidTransition)

		stored, err := s.GetBookingByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
		assert.Equal(t, b.TotalAmount, stored.TotalAmount)
		assert.Equal(t, b.Location, stored.Location)

		_, err = s.UpdateBookingPaymentStatus(ctx, 999, models.PaymentPaid, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("bookings by party", func(t *testing.T) {
		s := newStore(t)
		amigo := createAmigo(t, s, "amigo@example.com", "SP")
		other := createAmigo(t, s, "other@example.com", "SP")
		client := createClient(t, s, "client@example.com")
		_, err := s.CreateBooking(ctx, &models.Booking{ClientID: client.ID, AmigoID: amigo.ID, Date: day, StartTime: at(10), EndTime: at(11), Location: "x", TotalAmount: 110})
		require.NoError(t, err)
		_, err = s.CreateBooking(ctx, &models.Booking{ClientID: client.ID, AmigoID: other.ID, Date: day, StartTime: at(10), EndTime: at(11), Location: "x", TotalAmount: 110})
		require.NoError(t, err)

		byClient, err := s.GetBookingsByClient(ctx, client.ID)
		require.NoError(t, err)
		assert.Len(t, byClient, 2)

		byAmigo, err := s.GetBookingsByAmigo(ctx, amigo.ID)
		require.NoError(t, err)
		require.Len(t, byAmigo, 1)
		assert.Equal(t, amigo.ID, byAmigo[0].AmigoID)

		starting, err := s.ListBookingsStartingBetween(ctx, at(10), at(11))
		require.NoError(t, err)
		assert.Len(t, starting, 2)

		starting, err = s.ListBookingsStartingBetween(ctx, at(11), at(12))
		require.NoError(t, err)
		assert.Empty(t, starting)
	})

	t.Run("reviews and rating", func(t *testing.T) {
		s := newStore(t)
		amigo := createAmigo(t, s, "amigo@example.com", "SP")
		client := createClient(t, s, "client@example.com")
		b, err := s.CreateBooking(ctx, &models.Booking{ClientID: client.ID, AmigoID: amigo.ID, Date: day, StartTime: at(10), EndTime: at(11), Location: "x", TotalAmount: 110})
		require.NoError(t, err)

		avg, err := s.GetAverageRatingForUser(ctx, amigo.ID)
		require.NoError(t, err)
		assert.Zero(t, avg)

		for _, rating := range []int{5, 4} {
			_, err := s.CreateReview(ctx, &models.Review{BookingID: b.ID, ReviewerID: client.ID, RevieweeID: amigo.ID, Rating: rating})
			require.NoError(t, err)
		}
		_, err = s.CreateReview(ctx, &models.Review{BookingID: b.ID, ReviewerID: client.ID, RevieweeID: amigo.ID, Rating: 7})
		assert.ErrorIs(t, err, models.ErrInvalidRating)

		reviews, err := s.GetReviewsForUser(ctx, amigo.ID)
		require.NoError(t, err)
		assert.Len(t, reviews, 2)

		avg, err = s.GetAverageRatingForUser(ctx, amigo.ID)
		require.NoError(t, err)
		assert.InDelta(t, 4.5, avg, 0.0001)
	})

	t.Run("favorites", func(t *testing.T) {
		s := newStore(t)
		amigo := createAmigo(t, s, "amigo@example.com", "SP")
		client := createClient(t, s, "client@example.com")

		_, err := s.AddFavorite(ctx, client.ID, amigo.ID)
		require.NoError(t, err)
		_, err = s.AddFavorite(ctx, client.ID, amigo.ID)
		require.NoError(t, err)

		favs, err := s.GetFavorites(ctx, client.ID)
		require.NoError(t, err)
		require.Len(t, favs, 1)
		assert.Equal(t, amigo.ID, favs[0].ID)

		require.NoError(t, s.RemoveFavorite(ctx, client.ID, amigo.ID))
		assert.ErrorIs(t, s.RemoveFavorite(ctx, client.ID, amigo.ID), ErrNotFound)
	})

	t.Run("stripe customer and profile", func(t *testing.T) {
		s := newStore(t)
		client := createClient(t, s, "client@example.com")
		assert.Nil(t, client.StripeCustomerID)

		updated, err := s.UpdateUserStripeInfo(ctx, client.ID, "cus_123")
		require.NoError(t, err)
		require.NotNil(t, updated.StripeCustomerID)
		assert.Equal(t, "cus_123", *updated.StripeCustomerID)

		bio := "hello"
		updated, err = s.UpdateUserProfile(ctx, client.ID, models.ProfileUpdate{Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, "hello", updated.Bio)
		assert.Equal(t, "cus_123", *updated.StripeCustomerID)
	})
}
