package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/meinhoongagan/amigos-app/models"
	"github.com/meinhoongagan/amigos-app/payments"
	"github.com/meinhoongagan/amigos-app/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	args := m.Called(ctx, email, name)
	return args.String(0), args.Error(1)
}

func (m *mockProcessor) CreatePaymentIntent(ctx context.Context, req payments.IntentRequest) (*payments.Intent, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*payments.Intent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProcessor) GetPaymentIntent(ctx context.Context, id string) (*payments.Intent, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*payments.Intent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProcessor) CancelPaymentIntent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProcessor) ParseWebhook(payload []byte, signature string) (*payments.Event, error) {
	args := m.Called(payload, signature)
	if v := args.Get(0); v != nil {
		return v.(*payments.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

// flakyStore fails the next payment update once.
type flakyStore struct {
	storage.Storage
	failNext bool
}

func (s *flakyStore) UpdateBookingPaymentStatus(ctx context.Context, id uint, status models.PaymentStatus, intentID string) (*models.Booking, error) {
	if s.failNext {
		s.failNext = false
		return nil, errors.New("connection reset")
	}
	return s.Storage.UpdateBookingPaymentStatus(ctx, id, status, intentID)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) UploadAvatar(ctx context.Context, file interface{}, publicID string) (string, error) {
	args := m.Called(ctx, file, publicID)
	return args.String(0), args.Error(1)
}

type sentMail struct {
	to, subject, body string
}

// recordingMailer keeps every message instead of sending it.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *recordingMailer) to(addr string) []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMail
	for _, s := range m.sent {
		if s.to == addr {
			out = append(out, s)
		}
	}
	return out
}

// fixture is a store holding one amigo (rate 150), one client and an
// unrelated client.
type fixture struct {
	store    *storage.MemStorage
	amigo    *models.User
	client   *models.User
	stranger *models.User
	day      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemStorage(time.UTC)

	rate := 150
	amigo, err := store.CreateUser(ctx, &models.User{
		Email: "amigo@example.com", Username: "amigo", Password: "hash", Name: "Amigo",
		IsAmigo: true, HourlyRate: &rate, Location: "Pinheiros, São Paulo", Interests: []string{"Arte"},
	})
	require.NoError(t, err)
	client, err := store.CreateUser(ctx, &models.User{Email: "client@example.com", Username: "client", Password: "hash", Name: "Client"})
	require.NoError(t, err)
	stranger, err := store.CreateUser(ctx, &models.User{Email: "stranger@example.com", Username: "stranger", Password: "hash", Name: "Stranger"})
	require.NoError(t, err)

	return &fixture{
		store:    store,
		amigo:    amigo,
		client:   client,
		stranger: stranger,
		day:      time.Date(2030, 5, 20, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) at(hour int) time.Time {
	return f.day.Add(time.Duration(hour) * time.Hour)
}

func (f *fixture) bookingInput(startHour int) BookingInput {
	return BookingInput{
		AmigoID:   f.amigo.ID,
		Date:      f.day,
		StartTime: f.at(startHour),
		EndTime:   f.at(startHour + 1),
		Location:  "Avenida Paulista",
	}
}

func (f *fixture) book(t *testing.T, svc *BookingService, startHour int) *models.Booking {
	t.Helper()
	b, err := svc.CreateBooking(context.Background(), f.client.ID, f.bookingInput(startHour))
	require.NoError(t, err)
	return b
}
