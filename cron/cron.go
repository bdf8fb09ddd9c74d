package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/meinhoongagan/amigos-app/models"
	"github.com/meinhoongagan/amigos-app/payments"
	"github.com/meinhoongagan/amigos-app/redis"
	"github.com/meinhoongagan/amigos-app/storage"
	"github.com/meinhoongagan/amigos-app/utils"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Reminder window, relative to now, for bookings about to start.
const (
	reminderFrom = 55 * time.Minute
	reminderTo   = 65 * time.Minute
	jobTimeout   = 2 * time.Minute
)

type Config struct {
	ReminderSchedule  string
	ExpirySchedule    string
	PendingBookingTTL time.Duration
}

// Scheduler runs the booking reminder and stale booking jobs.
type Scheduler struct {
	cron      *cron.Cron
	store     storage.Storage
	processor payments.Processor
	mailer    utils.Mailer
	sent      redis.EventLog
	cfg       Config
	retry     utils.RetryConfig
	now       func() time.Time
}

// NewScheduler wires the jobs. sent remembers which reminders went out so a
// booking is reminded once even when it stays in the window across runs.
// processor may be nil, in which case expired bookings keep their intents.
func NewScheduler(store storage.Storage, processor payments.Processor, mailer utils.Mailer, sent redis.EventLog, cfg Config) *Scheduler {
	if cfg.ReminderSchedule == "" {
		cfg.ReminderSchedule = "*/5 * * * *"
	}
	if cfg.ExpirySchedule == "" {
		cfg.ExpirySchedule = "*/10 * * * *"
	}
	if cfg.PendingBookingTTL == 0 {
		cfg.PendingBookingTTL = 24 * time.Hour
	}
	if mailer == nil {
		mailer = utils.LogMailer{}
	}
	if sent == nil {
		sent = redis.NewMemoryEventLog()
	}
	return &Scheduler{
		cron:      cron.New(),
		store:     store,
		processor: processor,
		mailer:    mailer,
		sent:      sent,
		cfg:       cfg,
		retry:     utils.DefaultRetryConfig(),
		now:       time.Now,
	}
}

// Start registers the jobs and starts the scheduler
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.ReminderSchedule, s.run("booking reminders", s.SendReminders)); err != nil {
		return fmt.Errorf("add reminder job: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.ExpirySchedule, s.run("stale booking expiry", s.ExpireStaleBookings)); err != nil {
		return fmt.Errorf("add expiry job: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("reminders", s.cfg.ReminderSchedule).
		Str("expiry", s.cfg.ExpirySchedule).
		Msg("cron job scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run(name string, job func(context.Context) (int, error)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		n, err := job(ctx)
		if err != nil {
			log.Error().Err(err).Str("job", name).Msg("cron job failed")
			return
		}
		log.Debug().Str("job", name).Int("processed", n).Msg("cron job finished")
	}
}

// SendReminders emails the client of every paid booking starting in about an
// hour. It returns the number of reminders sent.
func (s *Scheduler) SendReminders(ctx context.Context) (int, error) {
	now := s.now().UTC()
	bookings, err := s.store.ListBookingsStartingBetween(ctx, now.Add(reminderFrom), now.Add(reminderTo))
	if err != nil {
		return 0, fmt.Errorf("fetch bookings for reminders: %w", err)
	}

	sent := 0
	for i := range bookings {
		b := &bookings[i]
		if b.PaymentStatus != models.PaymentPaid || b.Status.IsTerminal() {
			continue
		}

		client, err := s.store.GetUser(ctx, b.ClientID)
		if err != nil {
			log.Warn().Err(err).Uint("booking_id", b.ID).Msg("reminder skipped, client not found")
			continue
		}
		amigo, err := s.store.GetUser(ctx, b.AmigoID)
		if err != nil {
			log.Warn().Err(err).Uint("booking_id", b.ID).Msg("reminder skipped, amigo not found")
			continue
		}

		key := fmt.Sprintf("reminder-%d", b.ID)
		first, err := s.sent.Claim(ctx, key)
		if err != nil {
			log.Warn().Err(err).Uint("booking_id", b.ID).Msg("reminder log unavailable")
			first = true
		}
		if !first {
			continue
		}

		subject := fmt.Sprintf("Reminder: your meeting with %s starts soon", amigo.Name)
		body := reminderEmail(client, amigo, b)
		err = utils.Retry(ctx, s.retry, func() error {
			return s.mailer.Send(ctx, client.Email, subject, body)
		})
		if err != nil {
			log.Error().Err(err).Uint("booking_id", b.ID).Msg("failed to send reminder")
			if rerr := s.sent.Release(ctx, key); rerr != nil {
				log.Warn().Err(rerr).Uint("booking_id", b.ID).Msg("failed to release reminder")
			}
			continue
		}

		sent++
		log.Info().Uint("booking_id", b.ID).Str("to", client.Email).Msg("sent booking reminder")
	}
	return sent, nil
}

// ExpireStaleBookings cancels pending bookings left unpaid for longer than
// the configured TTL, freeing their slots and cancelling their intents.
func (s *Scheduler) ExpireStaleBookings(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.cfg.PendingBookingTTL)
	bookings, err := s.store.ListUnpaidBookingsCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("fetch stale bookings: %w", err)
	}

	expired := 0
	for _, b := range bookings {
		cancelled, err := s.store.UpdateBookingStatus(ctx, b.ID, models.BookingCancelled)
		if err != nil {
			log.Warn().Err(err).Uint("booking_id", b.ID).Msg("failed to expire booking")
			continue
		}
		payments.ReleaseIntent(ctx, s.processor, cancelled.ID, cancelled.StripePaymentIntentID)
		expired++
		log.Info().Uint("booking_id", b.ID).Msg("expired unpaid booking")
	}
	return expired, nil
}

func reminderEmail(client, amigo *models.User, b *models.Booking) string {
	return fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder that your meeting with %s starts in about one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Location:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
		</ul>
		<p>If you need to cancel, please do it as soon as possible.</p>
	`, client.Name, amigo.Name, b.Location,
		b.StartTime.Format("2006-01-02 15:04"),
		b.EndTime.Format("2006-01-02 15:04"))
}
