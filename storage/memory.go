package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/meinhoongagan/amigos-app/models"
	"github.com/meinhoongagan/amigos-app/utils"
)

// MemStorage keeps everything in process memory. Safe for concurrent use.
type MemStorage struct {
	mu  sync.RWMutex
	loc *time.Location
	now func() time.Time

	users        map[uint]models.User
	availability map[uint]models.Availability
	bookings     map[uint]models.Booking
	reviews      map[uint]models.Review
	favorites    map[[2]uint]models.Favorite

	nextUserID         uint
	nextAvailabilityID uint
	nextBookingID      uint
	nextReviewID       uint
}

// NewMemStorage returns an empty store. loc is the timezone used for
// calendar-day matching.
func NewMemStorage(loc *time.Location) *MemStorage {
	if loc == nil {
		loc = time.UTC
	}
	return &MemStorage{
		loc:                loc,
		now:                time.Now,
		users:              make(map[uint]models.User),
		availability:       make(map[uint]models.Availability),
		bookings:           make(map[uint]models.Booking),
		reviews:            make(map[uint]models.Review),
		favorites:          make(map[[2]uint]models.Favorite),
		nextUserID:         1,
		nextAvailabilityID: 1,
		nextBookingID:      1,
		nextReviewID:       1,
	}
}

var _ Storage = (*MemStorage)(nil)

func (s *MemStorage) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStorage) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, ErrDuplicateEmail
		}
	}

	u := *user
	u.ID = s.nextUserID
	s.nextUserID++
	u.StripeCustomerID = nil
	u.CreatedAt = s.now().UTC()
	if u.Interests == nil {
		u.Interests = pq.StringArray{}
	}
	s.users[u.ID] = u
	return &u, nil
}

func (s *MemStorage) UpdateUserStripeInfo(_ context.Context, userID uint, customerID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	id := customerID
	u.StripeCustomerID = &id
	s.users[userID] = u
	return &u, nil
}

func (s *MemStorage) UpdateUserProfile(_ context.Context, userID uint, update models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	update.Apply(&u)
	s.users[userID] = u
	return &u, nil
}

func (s *MemStorage) GetAmigos(_ context.Context, filters *AmigoFilters) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	amigos := []models.User{}
	for _, u := range s.users {
		if !u.IsAmigo {
			continue
		}
		if filters != nil {
			if filters.Location != "" && !strings.Contains(strings.ToLower(u.Location), strings.ToLower(filters.Location)) {
				continue
			}
			if len(filters.Interests) > 0 && !u.HasInterest(filters.Interests) {
				continue
			}
			if filters.Date != nil && !s.availableOnLocked(u.ID, *filters.Date) {
				continue
			}
		}
		amigos = append(amigos, u)
	}

	sort.Slice(amigos, func(i, j int) bool { return amigos[i].ID < amigos[j].ID })
	return amigos, nil
}

func (s *MemStorage) availableOnLocked(userID uint, day time.Time) bool {
	for _, a := range s.availability {
		if a.UserID == userID && utils.SameCalendarDay(a.Date, day, s.loc) {
			return true
		}
	}
	return false
}

func (s *MemStorage) GetAmigoByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok || !u.IsAmigo {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemStorage) GetAvailabilityForUser(_ context.Context, userID uint) ([]models.Availability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	windows := []models.Availability{}
	for _, a := range s.availability {
		if a.UserID == userID {
			windows = append(windows, a)
		}
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].StartTime.Before(windows[j].StartTime) })
	return windows, nil
}

func (s *MemStorage) CreateAvailability(_ context.Context, a *models.Availability) (*models.Availability, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := *a
	created.ID = s.nextAvailabilityID
	s.nextAvailabilityID++
	s.availability[created.ID] = created
	return &created, nil
}

func (s *MemStorage) CreateBooking(_ context.Context, b *models.Booking) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amigo, ok := s.users[b.AmigoID]; !ok || !amigo.IsAmigo {
		return nil, ErrAmigoNotFound
	}
	if _, ok := s.users[b.ClientID]; !ok {
		return nil, ErrClientNotFound
	}
	for _, existing := range s.bookings {
		if existing.AmigoID == b.AmigoID && existing.Overlaps(b.StartTime, b.EndTime) {
			return nil, ErrSlotTaken
		}
	}

	created := *b
	created.ID = s.nextBookingID
	s.nextBookingID++
	if created.Status == "" {
		created.Status = models.BookingPending
	}
	if created.PaymentStatus == "" {
		created.PaymentStatus = models.PaymentPending
	}
	created.StripePaymentIntentID = nil
	created.CreatedAt = s.now().UTC()
	s.bookings[created.ID] = created
	return &created, nil
}

func (s *MemStorage) GetBookingByID(_ context.Context, id uint) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (s *MemStorage) GetBookingsByClient(_ context.Context, clientID uint) ([]models.Booking, error) {
	return s.filterBookings(func(b *models.Booking) bool { return b.ClientID == clientID }), nil
}

func (s *MemStorage) GetBookingsByAmigo(_ context.Context, amigoID uint) ([]models.Booking, error) {
	return s.filterBookings(func(b *models.Booking) bool { return b.AmigoID == amigoID }), nil
}

func (s *MemStorage) ListBookingsStartingBetween(_ context.Context, from, to time.Time) ([]models.Booking, error) {
	return s.filterBookings(func(b *models.Booking) bool {
		return !b.StartTime.Before(from) && b.StartTime.Before(to)
	}), nil
}

func (s *MemStorage) ListUnpaidBookingsCreatedBefore(_ context.Context, before time.Time) ([]models.Booking, error) {
	return s.filterBookings(func(b *models.Booking) bool {
		return b.Status == models.BookingPending && b.PaymentStatus != models.PaymentPaid && b.CreatedAt.Before(before)
	}), nil
}

func (s *MemStorage) filterBookings(keep func(*models.Booking) bool) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := []models.Booking{}
	for _, b := range s.bookings {
		if keep(&b) {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
	return bookings
}

func (s *MemStorage) UpdateBookingPaymentStatus(_ context.Context, id uint, status models.PaymentStatus, paymentIntentID string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := b.UpdatePaymentStatus(status, paymentIntentID); err != nil {
		return nil, err
	}
	s.bookings[id] = b
	return &b, nil
}

func (s *MemStorage) UpdateBookingStatus(_ context.Context, id uint, status models.BookingStatus) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := b.UpdateStatus(status); err != nil {
		return nil, err
	}
	s.bookings[id] = b
	return &b, nil
}

func (s *MemStorage) CreateReview(_ context.Context, r *models.Review) (*models.Review, error) {
	if r.Rating < 1 || r.Rating > 5 {
		return nil, models.ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := *r
	created.ID = s.nextReviewID
	s.nextReviewID++
	created.CreatedAt = s.now().UTC()
	s.reviews[created.ID] = created
	return &created, nil
}

func (s *MemStorage) GetReviewsForUser(_ context.Context, userID uint) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews := []models.Review{}
	for _, r := range s.reviews {
		if r.RevieweeID == userID {
			reviews = append(reviews, r)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

func (s *MemStorage) GetAverageRatingForUser(ctx context.Context, userID uint) (float64, error) {
	reviews, err := s.GetReviewsForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(reviews) == 0 {
		return 0, nil
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews)), nil
}

func (s *MemStorage) AddFavorite(_ context.Context, userID, amigoID uint) (*models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]uint{userID, amigoID}
	if fav, ok := s.favorites[key]; ok {
		return &fav, nil
	}
	fav := models.Favorite{UserID: userID, AmigoID: amigoID, CreatedAt: s.now().UTC()}
	s.favorites[key] = fav
	return &fav, nil
}

func (s *MemStorage) RemoveFavorite(_ context.Context, userID, amigoID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]uint{userID, amigoID}
	if _, ok := s.favorites[key]; !ok {
		return ErrNotFound
	}
	delete(s.favorites, key)
	return nil
}

func (s *MemStorage) GetFavorites(_ context.Context, userID uint) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	amigos := []models.User{}
	for key := range s.favorites {
		if key[0] != userID {
			continue
		}
		if u, ok := s.users[key[1]]; ok {
			amigos = append(amigos, u)
		}
	}
	sort.Slice(amigos, func(i, j int) bool { return amigos[i].ID < amigos[j].ID })
	return amigos, nil
}
