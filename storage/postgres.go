package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/meinhoongagan/amigos-app/models"
	"github.com/meinhoongagan/amigos-app/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStorage implements Storage on top of GORM and PostgreSQL.
type PostgresStorage struct {
	db  *gorm.DB
	loc *time.Location
}

func NewPostgresStorage(db *gorm.DB, loc *time.Location) *PostgresStorage {
	if loc == nil {
		loc = time.UTC
	}
	return &PostgresStorage{db: db, loc: loc}
}

var _ Storage = (*PostgresStorage)(nil)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStorage) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *PostgresStorage) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	created := *user
	created.ID = 0
	created.StripeCustomerID = nil
	if created.Interests == nil {
		created.Interests = pq.StringArray{}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("LOWER(email) = LOWER(?)", created.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		return tx.Create(&created).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *PostgresStorage) UpdateUserStripeInfo(ctx context.Context, userID uint, customerID string) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("stripe_customer_id", customerID)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, userID)
}

func (s *PostgresStorage) UpdateUserProfile(ctx context.Context, userID uint, update models.ProfileUpdate) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return notFound(err)
		}
		update.Apply(&user)
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStorage) GetAmigos(ctx context.Context, filters *AmigoFilters) ([]models.User, error) {
	query := s.db.WithContext(ctx).Model(&models.User{}).Where("is_amigo = ?", true)

	if filters != nil {
		if filters.Location != "" {
			query = query.Where("location ILIKE ?", "%"+escapeLike(filters.Location)+"%")
		}
		if len(filters.Interests) > 0 {
			query = query.Where("interests && ?", pq.StringArray(filters.Interests))
		}
		if filters.Date != nil {
			start, end := utils.DayBounds(*filters.Date, s.loc)
			query = query.Where(
				"EXISTS (SELECT 1 FROM availability a WHERE a.user_id = users.id AND a.date >= ? AND a.date < ?)",
				start, end,
			)
		}
	}

	amigos := []models.User{}
	if err := query.Order("id").Find(&amigos).Error; err != nil {
		return nil, err
	}
	return amigos, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *PostgresStorage) GetAmigoByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_amigo = ?", id, true).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *PostgresStorage) GetAvailabilityForUser(ctx context.Context, userID uint) ([]models.Availability, error) {
	windows := []models.Availability{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("start_time").Find(&windows).Error
	return windows, err
}

func (s *PostgresStorage) CreateAvailability(ctx context.Context, a *models.Availability) (*models.Availability, error) {
	created := *a
	created.ID = 0
	if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateBooking locks the amigo row so concurrent requests for the same amigo
// serialize on the overlap check.
func (s *PostgresStorage) CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	created := *b
	created.ID = 0
	created.StripePaymentIntentID = nil

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var amigo models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_amigo = ?", created.AmigoID, true).
			First(&amigo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAmigoNotFound
			}
			return err
		}

		var clients int64
		if err := tx.Model(&models.User{}).Where("id = ?", created.ClientID).Count(&clients).Error; err != nil {
			return err
		}
		if clients == 0 {
			return ErrClientNotFound
		}

		var overlapping int64
		if err := tx.Model(&models.Booking{}).
			Where("amigo_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
				created.AmigoID, models.BookingCancelled, created.EndTime, created.StartTime).
			Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrSlotTaken
		}

		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *PostgresStorage) GetBookingByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

func (s *PostgresStorage) GetBookingsByClient(ctx context.Context, clientID uint) ([]models.Booking, error) {
	return s.findBookings(ctx, "client_id = ?", clientID)
}

func (s *PostgresStorage) GetBookingsByAmigo(ctx context.Context, amigoID uint) ([]models.Booking, error) {
	return s.findBookings(ctx, "amigo_id = ?", amigoID)
}

func (s *PostgresStorage) ListBookingsStartingBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	return s.findBookings(ctx, "start_time >= ? AND start_time < ?", from, to)
}

func (s *PostgresStorage) ListUnpaidBookingsCreatedBefore(ctx context.Context, before time.Time) ([]models.Booking, error) {
	return s.findBookings(ctx, "status = ? AND payment_status <> ? AND created_at < ?",
		models.BookingPending, models.PaymentPaid, before)
}

func (s *PostgresStorage) findBookings(ctx context.Context, where string, args ...interface{}) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := s.db.WithContext(ctx).Where(where, args...).Order("id").Find(&bookings).Error
	return bookings, err
}

func (s *PostgresStorage) UpdateBookingPaymentStatus(ctx context.Context, id uint, status models.PaymentStatus, paymentIntentID string) (*models.Booking, error) {
	return s.mutateBooking(ctx, id, func(b *models.Booking) error {
		return b.UpdatePaymentStatus(status, paymentIntentID)
	})
}

func (s *PostgresStorage) UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, error) {
	return s.mutateBooking(ctx, id, func(b *models.Booking) error {
		return b.UpdateStatus(status)
	})
}

// mutateBooking applies fn to the booking under SELECT ... FOR UPDATE.
func (s *PostgresStorage) mutateBooking(ctx context.Context, id uint, fn func(*models.Booking) error) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, id).Error; err != nil {
			return notFound(err)
		}
		if err := fn(&booking); err != nil {
			return err
		}
		return tx.Model(&booking).Updates(map[string]interface{}{
			"status":                   booking.Status,
			"payment_status":           booking.PaymentStatus,
			"stripe_payment_intent_id": booking.StripePaymentIntentID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *PostgresStorage) CreateReview(ctx context.Context, r *models.Review) (*models.Review, error) {
	created := *r
	created.ID = 0
	if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *PostgresStorage) GetReviewsForUser(ctx context.Context, userID uint) ([]models.Review, error) {
	reviews := []models.Review{}
	err := s.db.WithContext(ctx).Where("reviewee_id = ?", userID).Order("id").Find(&reviews).Error
	return reviews, err
}

func (s *PostgresStorage) GetAverageRatingForUser(ctx context.Context, userID uint) (float64, error) {
	var avg float64
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("reviewee_id = ?", userID).
		Row().Scan(&avg)
	return avg, err
}

func (s *PostgresStorage) AddFavorite(ctx context.Context, userID, amigoID uint) (*models.Favorite, error) {
	fav := models.Favorite{UserID: userID, AmigoID: amigoID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Where("user_id = ? AND amigo_id = ?", userID, amigoID).First(&fav).Error; err != nil {
		return nil, notFound(err)
	}
	return &fav, nil
}

func (s *PostgresStorage) RemoveFavorite(ctx context.Context, userID, amigoID uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND amigo_id = ?", userID, amigoID).Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) GetFavorites(ctx context.Context, userID uint) ([]models.User, error) {
	amigos := []models.User{}
	err := s.db.WithContext(ctx).
		Joins("JOIN favorites f ON f.amigo_id = users.id").
		Where("f.user_id = ?", userID).
		Order("users.id").
		Find(&amigos).Error
	return amigos, err
}
