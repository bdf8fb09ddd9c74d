package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/meinhoongagan/amigos-app/models"
	"github.com/meinhoongagan/amigos-app/payments"
	"github.com/meinhoongagan/amigos-app/storage"
	"github.com/meinhoongagan/amigos-app/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeMailer struct {
	mu    sync.Mutex
	fail  bool
	calls int
	to    []string
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.to = append(m.to, to)
	return nil
}

// fakeProcessor records cancelled intents; every other call fails.
type fakeProcessor struct {
	mu        sync.Mutex
	cancelled []string
}

func (p *fakeProcessor) CreateCustomer(context.Context, string, string) (string, error) {
	return "", payments.ErrNotConfigured
}

func (p *fakeProcessor) CreatePaymentIntent(context.Context, payments.IntentRequest) (*payments.Intent, error) {
	return nil, payments.ErrNotConfigured
}

func (p *fakeProcessor) GetPaymentIntent(context.Context, string) (*payments.Intent, error) {
	return nil, payments.ErrNotConfigured
}

func (p *fakeProcessor) CancelPaymentIntent(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, id)
	return nil
}

func (p *fakeProcessor) ParseWebhook([]byte, string) (*payments.Event, error) {
	return nil, payments.ErrNotConfigured
}

type fixture struct {
	store  *storage.MemStorage
	client *models.User
	amigo  *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemStorage(time.UTC)

	rate := 100
	amigo, err := store.CreateUser(ctx, &models.User{Email: "amigo@example.com", Name: "Amigo", IsAmigo: true, HourlyRate: &rate})
	require.NoError(t, err)
	client, err := store.CreateUser(ctx, &models.User{Email: "client@example.com", Name: "Client"})
	require.NoError(t, err)
	return &fixture{store: store, client: client, amigo: amigo}
}

func (f *fixture) book(t *testing.T, start time.Time, paid bool) *models.Booking {
	t.Helper()
	ctx := context.Background()
	b, err := f.store.CreateBooking(ctx, &models.Booking{
		ClientID: f.client.ID, AmigoID: f.amigo.ID,
		Date: start, StartTime: start, EndTime: start.Add(time.Hour),
		Location: "Ibirapuera", TotalAmount: 110,
	})
	require.NoError(t, err)
	if paid {
		b, err = f.store.UpdateBookingPaymentStatus(ctx, b.ID, models.PaymentPaid, "pi_1")
		require.NoError(t, err)
	}
	return b
}

func newTestScheduler(f *fixture, mailer *fakeMailer, now time.Time) *Scheduler {
	s := NewScheduler(f.store, nil, mailer, nil, Config{PendingBookingTTL: 24 * time.Hour})
	s.now = func() time.Time { return now }
	s.retry = utils.RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}
	return s
}

func TestSendRemindersOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now().UTC().Truncate(time.Minute)

	f.book(t, now.Add(time.Hour), true)
	f.book(t, now.Add(3*time.Hour), true)
	f.book(t, now.Add(-2*time.Hour), true)

	mailer := &fakeMailer{}
	s := newTestScheduler(f, mailer, now)

	sent, err := s.SendReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"client@example.com"}, mailer.to)

	sent, err = s.SendReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, mailer.to, 1)
}

func TestSendRemindersSkipsUnpaidAndCancelled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now().UTC().Truncate(time.Minute)

	cancelled := f.book(t, now.Add(time.Hour), true)
	_, err := f.store.UpdateBookingStatus(ctx, cancelled.ID, models.BookingCancelled)
	require.NoError(t, err)
	f.book(t, now.Add(time.Hour+2*time.Minute), false)

	mailer := &fakeMailer{}
	s := newTestScheduler(f, mailer, now)

	sent, err := s.SendReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Zero(t, mailer.calls)
}

func TestSendRemindersRetriesLater(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now().UTC().Truncate(time.Minute)
	f.book(t, now.Add(time.Hour), true)

	mailer := &fakeMailer{fail: true}
	s := newTestScheduler(f, mailer, now)

	sent, err := s.SendReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Equal(t, 2, mailer.calls)

	mailer.fail = false
	sent, err = s.SendReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestExpireStaleBookings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour)

	stale := f.book(t, start, false)
	paid := f.book(t, start.Add(time.Hour), true)

	mailer := &fakeMailer{}

	fresh := newTestScheduler(f, mailer, time.Now().UTC())
	expired, err := fresh.ExpireStaleBookings(ctx)
	require.NoError(t, err)
	assert.Zero(t, expired)

	later := newTestScheduler(f, mailer, time.Now().UTC().Add(25*time.Hour))
	expired, err = later.ExpireStaleBookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	got, err := f.store.GetBookingByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)

	got, err = f.store.GetBookingByID(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, got.Status)

	expired, err = later.ExpireStaleBookings(ctx)
	require.NoError(t, err)
	assert.Zero(t, expired)
}

func TestExpireStaleBookingsCancelsIntent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour)

	stale := f.book(t, start, false)
	_, err := f.store.UpdateBookingPaymentStatus(ctx, stale.ID, models.PaymentPending, "pi_stale")
	require.NoError(t, err)
	f.book(t, start.Add(time.Hour), false)

	proc := &fakeProcessor{}
	s := newTestScheduler(f, &fakeMailer{}, time.Now().UTC().Add(25*time.Hour))
	s.processor = proc

	expired, err := s.ExpireStaleBookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	assert.Equal(t, []string{"pi_stale"}, proc.cancelled)

	_, err = f.store.UpdateBookingPaymentStatus(ctx, stale.ID, models.PaymentPaid, "pi_stale")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestSchedulerStartStop(t *testing.T) {
	f := newFixture(t)
	s := NewScheduler(f.store, nil, &fakeMailer{}, nil, Config{})
	require.NoError(t, s.Start())
	s.Stop()
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	f := newFixture(t)
	s := NewScheduler(f.store, nil, &fakeMailer{}, nil, Config{ReminderSchedule: "not a schedule"})
	assert.Error(t, s.Start())
}
