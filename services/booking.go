package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/meinhoongagan/amigos-app/models"
	"github.com/meinhoongagan/amigos-app/payments"
	"github.com/meinhoongagan/amigos-app/redis"
	"github.com/meinhoongagan/amigos-app/storage"
	"github.com/meinhoongagan/amigos-app/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// BookingService owns the booking and payment lifecycle.
type BookingService struct {
	store     storage.Storage
	processor payments.Processor
	events    redis.EventLog
	mailer    utils.Mailer
	currency  string
}

func NewBookingService(store storage.Storage, processor payments.Processor, events redis.EventLog, mailer utils.Mailer, currency string) *BookingService {
	if events == nil {
		events = redis.NewMemoryEventLog()
	}
	if mailer == nil {
		mailer = utils.LogMailer{}
	}
	if currency == "" {
		currency = "brl"
	}
	return &BookingService{
		store:     store,
		processor: processor,
		events:    events,
		mailer:    mailer,
		currency:  currency,
	}
}

type BookingInput struct {
	ClientID    *uint     `json:"clientId"`
	AmigoID     uint      `json:"amigoId"`
	Date        time.Time `json:"date"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Location    string    `json:"location"`
	TotalAmount *int      `json:"totalAmount"`
}

// CreateBooking books an amigo for the acting client. The total is always
// computed from the amigo's hourly rate.
func (s *BookingService) CreateBooking(ctx context.Context, actorID uint, in BookingInput) (*models.Booking, error) {
	clientID := actorID
	if in.ClientID != nil {
		clientID = *in.ClientID
	}

	amigo, err := s.store.GetAmigoByID(ctx, in.AmigoID)
	if err != nil {
		return nil, storeError(err, "Amigo not found")
	}
	client, err := s.store.GetUser(ctx, clientID)
	if err != nil {
		return nil, storeError(err, "Client not found")
	}
	if client.ID != actorID {
		return nil, apperrors.NewForbiddenError("You can only create bookings for yourself")
	}
	if client.ID == amigo.ID {
		return nil, apperrors.NewValidationError("Validation error",
			apperrors.FieldError{Path: "amigoId", Message: "you cannot book yourself"})
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, apperrors.NewValidationError("Validation error",
			apperrors.FieldError{Path: "endTime", Message: "end time must be after start time"})
	}
	if amigo.HourlyRate == nil {
		return nil, apperrors.NewValidationError("Validation error",
			apperrors.FieldError{Path: "amigoId", Message: "amigo has no hourly rate"})
	}

	total := utils.ComputeTotal(*amigo.HourlyRate)
	if in.TotalAmount != nil && *in.TotalAmount != total {
		return nil, apperrors.NewValidationError("Validation error", apperrors.FieldError{
			Path:    "totalAmount",
			Message: fmt.Sprintf("total amount must be %d", total),
		})
	}

	booking, err := s.store.CreateBooking(ctx, &models.Booking{
		ClientID:      clientID,
		AmigoID:       amigo.ID,
		Date:          in.Date.UTC(),
		StartTime:     in.StartTime.UTC(),
		EndTime:       in.EndTime.UTC(),
		Location:      in.Location,
		Status:        models.BookingPending,
		TotalAmount:   total,
		PaymentStatus: models.PaymentPending,
	})
	if err != nil {
		return nil, storeError(err, "Booking not found")
	}

	log.Info().
		Uint("booking_id", booking.ID).
		Uint("client_id", booking.ClientID).
		Uint("amigo_id", booking.AmigoID).
		Int("total_amount", booking.TotalAmount).
		Msg("booking created")

	s.notify(ctx, amigo.Email, "New booking request", newBookingEmail(amigo, client, booking))
	return booking, nil
}

// GetBooking returns a booking to one of its two parties.
func (s *BookingService) GetBooking(ctx context.Context, actorID, id uint) (*models.Booking, error) {
	booking, err := s.store.GetBookingByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Booking not found")
	}
	if !booking.IsParty(actorID) {
		return nil, apperrors.NewForbiddenError("You are not a party to this booking")
	}
	return booking, nil
}

// ListBookingsForUser lists a user's bookings as amigo or as client,
// depending on the kind of account.
func (s *BookingService) ListBookingsForUser(ctx context.Context, actorID, userID uint) ([]models.Booking, error) {
	if actorID != userID {
		return nil, apperrors.NewForbiddenError("You can only list your own bookings")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}

	var bookings []models.Booking
	if user.IsAmigo {
		bookings, err = s.store.GetBookingsByAmigo(ctx, userID)
	} else {
		bookings, err = s.store.GetBookingsByClient(ctx, userID)
	}
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return bookings, nil
}

// UpdateBookingStatus applies a lifecycle move requested by one of the
// parties. Only the amigo confirms or completes, and only a paid booking
// can be confirmed.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, actorID, id uint, status models.BookingStatus) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	switch status {
	case models.BookingConfirmed, models.BookingCompleted:
		if actorID != booking.AmigoID {
			return nil, apperrors.NewForbiddenError("Only the amigo can " + verb(status) + " a booking")
		}
		if status == models.BookingConfirmed && booking.PaymentStatus != models.PaymentPaid {
			return nil, apperrors.NewConflictError("Booking must be paid before it can be confirmed")
		}
	case models.BookingCancelled:
	default:
		return nil, apperrors.NewValidationError("Validation error",
			apperrors.FieldError{Path: "status", Message: fmt.Sprintf("cannot move a booking to %s", status)})
	}

	updated, err := s.store.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		return nil, storeError(err, "Booking not found")
	}

	log.Info().Uint("booking_id", id).Str("status", string(status)).Uint("actor_id", actorID).Msg("booking status changed")

	if updated.Status == models.BookingCancelled {
		if updated.PaymentStatus == models.PaymentPaid {
			log.Warn().Uint("booking_id", id).Bool("refund_required", true).Msg("paid booking cancelled")
		} else {
			payments.ReleaseIntent(ctx, s.processor, updated.ID, updated.StripePaymentIntentID)
		}
	}

	otherID := updated.ClientID
	if actorID == updated.ClientID {
		otherID = updated.AmigoID
	}
	if other, err := s.store.GetUser(ctx, otherID); err == nil {
		s.notify(ctx, other.Email, fmt.Sprintf("Booking #%d %s", updated.ID, updated.Status), statusEmail(other, updated))
	}
	return updated, nil
}

func verb(status models.BookingStatus) string {
	if status == models.BookingConfirmed {
		return "confirm"
	}
	return "complete"
}

// CreatePaymentIntent returns the client secret of the PaymentIntent that
// pays for the booking, creating it on first use. The idempotency key makes a
// retry after a lost response return the same intent.
func (s *BookingService) CreatePaymentIntent(ctx context.Context, actorID, bookingID uint) (string, error) {
	booking, err := s.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		return "", storeError(err, "Booking not found")
	}
	if booking.ClientID != actorID {
		return "", apperrors.NewForbiddenError("Only the client can pay for a booking")
	}
	if booking.PaymentStatus == models.PaymentPaid {
		return "", apperrors.NewConflictError("Booking is already paid")
	}
	if booking.Status.IsTerminal() {
		return "", apperrors.NewConflictError(fmt.Sprintf("Booking is %s", booking.Status))
	}
	if s.processor == nil {
		return "", apperrors.NewExternalError("Payments are not configured", payments.ErrNotConfigured)
	}

	idempotencyKey := fmt.Sprintf("booking-%d-payment-intent", booking.ID)
	if booking.StripePaymentIntentID != nil {
		existing, err := s.processor.GetPaymentIntent(ctx, *booking.StripePaymentIntentID)
		if err != nil {
			return "", apperrors.NewExternalError("Failed to load payment intent", err)
		}
		if existing.Status != "canceled" {
			return existing.ClientSecret, nil
		}
		idempotencyKey += "-" + existing.ID
	}

	customerID, err := s.ensureCustomer(ctx, booking.ClientID)
	if err != nil {
		return "", err
	}

	intent, err := s.processor.CreatePaymentIntent(ctx, payments.IntentRequest{
		AmountMinor: utils.ToMinorUnits(booking.TotalAmount),
		Currency:    s.currency,
		CustomerID:  customerID,
		Description: fmt.Sprintf("Booking #%d - Amigos", booking.ID),
		Metadata: map[string]string{
			"bookingId": strconv.FormatUint(uint64(booking.ID), 10),
			"clientId":  strconv.FormatUint(uint64(booking.ClientID), 10),
			"amigoId":   strconv.FormatUint(uint64(booking.AmigoID), 10),
		},
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return "", apperrors.NewExternalError("Failed to create payment intent", err)
	}

	if _, err := s.store.UpdateBookingPaymentStatus(ctx, booking.ID, models.PaymentPending, intent.ID); err != nil {
		return "", storeError(err, "Booking not found")
	}

	log.Info().Uint("booking_id", booking.ID).Str("payment_intent_id", intent.ID).Msg("payment intent created")
	return intent.ClientSecret, nil
}

func (s *BookingService) ensureCustomer(ctx context.Context, userID uint) (string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", storeError(err, "Client not found")
	}
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	customerID, err := s.processor.CreateCustomer(ctx, user.Email, user.Name)
	if err != nil {
		return "", apperrors.NewExternalError("Failed to create payment customer", err)
	}
	if _, err := s.store.UpdateUserStripeInfo(ctx, user.ID, customerID); err != nil {
		return "", storeError(err, "Client not found")
	}
	return customerID, nil
}

// HandlePaymentWebhook authenticates a processor delivery and applies it to
// the booking named in its metadata. Deliveries that cannot be applied are
// acknowledged and logged so the processor stops retrying them.
func (s *BookingService) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.processor == nil {
		return apperrors.NewExternalError("Payments are not configured", payments.ErrNotConfigured)
	}

	event, err := s.processor.ParseWebhook(payload, signature)
	if errors.Is(err, payments.ErrInvalidSignature) {
		log.Warn().Err(err).Msg("rejected webhook with invalid signature")
		return apperrors.NewValidationError("Invalid webhook signature")
	}
	if errors.Is(err, payments.ErrNotConfigured) {
		return apperrors.NewExternalError("Payment webhooks are not configured", err)
	}
	if err != nil {
		return apperrors.NewValidationError("Invalid webhook payload")
	}

	logger := log.With().Str("event_id", event.ID).Str("event_type", event.Type).Logger()

	var status models.PaymentStatus
	switch event.Type {
	case payments.EventPaymentSucceeded:
		status = models.PaymentPaid
	case payments.EventPaymentFailed:
		status = models.PaymentFailed
	default:
		logger.Debug().Msg("ignoring webhook event")
		return nil
	}

	seen, err := s.events.Seen(ctx, event.ID)
	if err != nil {
		logger.Warn().Err(err).Msg("event log unavailable, processing without dedupe")
	}
	if seen {
		logger.Info().Msg("duplicate webhook delivery skipped")
		return nil
	}

	if err := s.applyPaymentEvent(ctx, logger, event, status); err != nil {
		return err
	}

	// Recorded only after the update so a failed delivery is replayed.
	if _, err := s.events.Claim(ctx, event.ID); err != nil {
		logger.Warn().Err(err).Msg("failed to record webhook event")
	}
	return nil
}

// applyPaymentEvent moves the booking named in the event to status. It
// returns nil for deliveries that are acknowledged without a change and an
// error only when the processor should redeliver.
func (s *BookingService) applyPaymentEvent(ctx context.Context, logger zerolog.Logger, event *payments.Event, status models.PaymentStatus) error {
	bookingID, err := strconv.ParseUint(event.Metadata["bookingId"], 10, 64)
	if err != nil || bookingID == 0 {
		logger.Warn().Str("booking_id", event.Metadata["bookingId"]).Msg("webhook event has no valid bookingId")
		return nil
	}

	booking, err := s.store.GetBookingByID(ctx, uint(bookingID))
	if errors.Is(err, storage.ErrNotFound) {
		logger.Warn().Uint64("booking_id", bookingID).Msg("webhook event for unknown booking")
		return nil
	}
	if err != nil {
		return storeError(err, "Booking not found")
	}
	if booking.StripePaymentIntentID != nil && event.PaymentIntentID != "" && *booking.StripePaymentIntentID != event.PaymentIntentID {
		logger.Warn().
			Uint64("booking_id", bookingID).
			Str("payment_intent_id", event.PaymentIntentID).
			Msg("webhook payment intent does not match booking")
		return nil
	}

	updated, err := s.store.UpdateBookingPaymentStatus(ctx, booking.ID, status, event.PaymentIntentID)
	if errors.Is(err, models.ErrInvalidTransition) {
		if status == models.PaymentPaid {
			logger.Error().Err(err).
				Uint64("booking_id", bookingID).
				Str("payment_intent_id", event.PaymentIntentID).
				Bool("refund_required", true).
				Msg("payment succeeded for a booking that can no longer be paid")
			return nil
		}
		logger.Warn().Err(err).Uint64("booking_id", bookingID).Msg("webhook transition ignored")
		return nil
	}
	if err != nil {
		return storeError(err, "Booking not found")
	}

	logger.Info().
		Uint("booking_id", updated.ID).
		Str("payment_status", string(updated.PaymentStatus)).
		Msg("booking payment status reconciled")
	return nil
}

// notify sends an email and only logs failures.
func (s *BookingService) notify(ctx context.Context, to, subject, body string) {
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		log.Warn().Err(err).Str("to", to).Str("subject", subject).Msg("failed to send notification")
	}
}
