package storage

import (
	"context"
	"errors"
	"time"

	"github.com/meinhoongagan/amigos-app/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrAmigoNotFound  = errors.New("amigo not found")
	ErrClientNotFound = errors.New("client not found")
	ErrSlotTaken      = errors.New("time slot already booked")
	ErrDuplicateEmail = errors.New("email already registered")
)

// AmigoFilters narrows GetAmigos. Zero values mean "no filter".
type AmigoFilters struct {
	Location  string
	Interests []string
	Date      *time.Time
}

// Storage is the data access contract shared by the in-memory and PostgreSQL
// backends. Lookups of missing rows return ErrNotFound.
type Storage interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUserStripeInfo(ctx context.Context, userID uint, customerID string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, userID uint, update models.ProfileUpdate) (*models.User, error)

	GetAmigos(ctx context.Context, filters *AmigoFilters) ([]models.User, error)
	GetAmigoByID(ctx context.Context, id uint) (*models.User, error)

	GetAvailabilityForUser(ctx context.Context, userID uint) ([]models.Availability, error)
	CreateAvailability(ctx context.Context, a *models.Availability) (*models.Availability, error)

	// CreateBooking re-checks both parties and the amigo's calendar in the
	// same unit of work as the insert.
	CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id uint) (*models.Booking, error)
	GetBookingsByClient(ctx context.Context, clientID uint) ([]models.Booking, error)
	GetBookingsByAmigo(ctx context.Context, amigoID uint) ([]models.Booking, error)
	UpdateBookingPaymentStatus(ctx context.Context, id uint, status models.PaymentStatus, paymentIntentID string) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, error)
	ListBookingsStartingBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error)
	ListUnpaidBookingsCreatedBefore(ctx context.Context, before time.Time) ([]models.Booking, error)

	CreateReview(ctx context.Context, r *models.Review) (*models.Review, error)
	GetReviewsForUser(ctx context.Context, userID uint) ([]models.Review, error)
	GetAverageRatingForUser(ctx context.Context, userID uint) (float64, error)

	AddFavorite(ctx context.Context, userID, amigoID uint) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, amigoID uint) error
	GetFavorites(ctx context.Context, userID uint) ([]models.User, error)
}
