package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeProcessor implements Processor with the Stripe API.
type StripeProcessor struct {
	sc            *client.API
	webhookSecret string
}

// NewStripeProcessor builds a processor bound to secretKey. Each instance owns
// its own API client.
func NewStripeProcessor(secretKey, webhookSecret string) *StripeProcessor {
	sc := &client.API{}
	if secretKey != "" {
		sc.Init(secretKey, nil)
	}
	return &StripeProcessor{sc: sc, webhookSecret: webhookSecret}
}

var _ Processor = (*StripeProcessor)(nil)

func (p *StripeProcessor) configured() bool {
	return p.sc.PaymentIntents != nil
}

func (p *StripeProcessor) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	if !p.configured() {
		return "", ErrNotConfigured
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx

	cus, err := p.sc.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("create stripe customer: %w", err)
	}
	return cus.ID, nil
}

func (p *StripeProcessor) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	if !p.configured() {
		return nil, ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.AmountMinor),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	params.Context = ctx

	pi, err := p.sc.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return toIntent(pi), nil
}

func (p *StripeProcessor) GetPaymentIntent(ctx context.Context, id string) (*Intent, error) {
	if !p.configured() {
		return nil, ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := p.sc.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get payment intent %s: %w", id, err)
	}
	return toIntent(pi), nil
}

func (p *StripeProcessor) CancelPaymentIntent(ctx context.Context, id string) error {
	if !p.configured() {
		return ErrNotConfigured
	}

	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := p.sc.PaymentIntents.Cancel(id, params); err != nil {
		return fmt.Errorf("cancel payment intent %s: %w", id, err)
	}
	return nil
}

func (p *StripeProcessor) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if p.webhookSecret == "" {
		return nil, ErrNotConfigured
	}
	if signature == "" {
		return nil, ErrInvalidSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return out, nil
	}

	switch out.Type {
	case EventPaymentSucceeded, EventPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decode payment intent: %w", err)
		}
		out.PaymentIntentID = pi.ID
		out.Metadata = pi.Metadata
	}
	return out, nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountMinor:  pi.Amount,
		Metadata:     pi.Metadata,
	}
}
