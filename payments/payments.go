package payments

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// Webhook event types the booking flow reacts to.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

var (
	// ErrInvalidSignature means the webhook payload could not be authenticated.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrNotConfigured is returned by every call of an unconfigured processor.
	ErrNotConfigured = errors.New("payment processor is not configured")
)

// IntentRequest describes a PaymentIntent to create.
type IntentRequest struct {
	AmountMinor    int64
	Currency       string
	CustomerID     string
	Description    string
	Metadata       map[string]string
	IdempotencyKey string
}

// Intent is the subset of a processor PaymentIntent the application uses.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountMinor  int64
	Metadata     map[string]string
}

// ReleaseIntent cancels the booking's open PaymentIntent, if any, so it can no
// longer be charged. Failures are logged; a payment that still lands on the
// cancelled booking is rejected when its webhook arrives.
func ReleaseIntent(ctx context.Context, p Processor, bookingID uint, intentID *string) {
	if p == nil || intentID == nil || *intentID == "" {
		return
	}
	if err := p.CancelPaymentIntent(ctx, *intentID); err != nil {
		log.Warn().Err(err).
			Uint("booking_id", bookingID).
			Str("payment_intent_id", *intentID).
			Msg("failed to cancel payment intent")
		return
	}
	log.Info().Uint("booking_id", bookingID).Str("payment_intent_id", *intentID).Msg("payment intent cancelled")
}

// Event is an authenticated webhook delivery.
type Event struct {
	ID              string
	Type            string
	PaymentIntentID string
	Metadata        map[string]string
}

// Processor is the port to the hosted payment processor.
type Processor interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	GetPaymentIntent(ctx context.Context, id string) (*Intent, error)
	// CancelPaymentIntent stops an unpaid intent from being confirmed.
	CancelPaymentIntent(ctx context.Context, id string) error
	// ParseWebhook verifies signature against the endpoint secret before
	// decoding payload.
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
