package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeProvider creates Stripe Checkout sessions and verifies webhook
// signatures.
type StripeProvider struct {
	api           *client.API
	webhookSecret string

	successURL string
	cancelURL  string
	unitAmount int64
	currency   string
}

type StripeConfig struct {
	SecretKey        string
	WebhookSecret    string
	SuccessURL       string
	CancelURL        string
	TicketPriceCents int64
}

func NewStripeProvider(cfg StripeConfig) *StripeProvider {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeProvider{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		unitAmount:    cfg.TicketPriceCents,
		currency:      string(stripe.CurrencyUSD),
	}
}

func (p *StripeProvider) CreateSession(ctx context.Context, in CreateSessionInput) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Ticket: " + in.EventTitle),
					},
					UnitAmount: stripe.Int64(p.unitAmount),
				},
				Quantity: stripe.Int64(int64(in.Quantity)),
			},
		},
		SuccessURL: stripe.String(p.successURL),
		CancelURL:  stripe.String(p.cancelURL),
	}
	params.Context = ctx
	if in.PurchaserEmail != "" {
		params.CustomerEmail = stripe.String(in.PurchaserEmail)
	}
	params.AddMetadata("event_id", in.EventID)
	params.AddMetadata("quantity", strconv.Itoa(in.Quantity))
	params.AddMetadata("purchaser_email", in.PurchaserEmail)

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return Session{}, fmt.Errorf("create checkout session: %w", err)
	}
	return Session{ID: sess.ID, URL: sess.URL}, nil
}

// ParseCompletedCheckout verifies the signature over the raw payload and, for
// checkout.session.completed events, extracts the completion details. Other
// verified event types return (nil, nil): the caller acknowledges them so the
// processor stops retrying.
func (p *StripeProvider) ParseCompletedCheckout(payload []byte, sigHeader string) (*CompletedCheckout, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal checkout session: %w", err)
	}

	eventID := sess.Metadata["event_id"]
	if eventID == "" {
		return nil, ErrMissingMetadata
	}

	quantity, err := strconv.Atoi(sess.Metadata["quantity"])
	if err != nil || quantity < 1 {
		quantity = 1
	}

	email := sess.Metadata["purchaser_email"]
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		email = sess.CustomerDetails.Email
	}

	return &CompletedCheckout{
		SessionID:      sess.ID,
		EventID:        eventID,
		Quantity:       quantity,
		PurchaserEmail: email,
	}, nil
}
