// Package payment isolates the external payment processor. The rest of the
// service only sees sessions and verified completion notifications; nothing
// outside this package imports the Stripe SDK.
package payment

import (
	"context"
	"errors"
)

// Session is a payment session the purchaser is redirected to.
type Session struct {
	ID  string
	URL string
}

// CreateSessionInput describes one checkout. EventID, Quantity and
// PurchaserEmail travel as opaque metadata and come back verbatim on
// completion.
type CreateSessionInput struct {
	EventID        string
	EventTitle     string
	Quantity       int
	PurchaserEmail string
}

// Provider creates payment sessions with an external processor.
type Provider interface {
	CreateSession(ctx context.Context, in CreateSessionInput) (Session, error)
}

// CompletedCheckout is a verified "payment completed" notification.
type CompletedCheckout struct {
	SessionID      string
	EventID        string
	Quantity       int
	PurchaserEmail string
}

// ErrInvalidSignature marks a webhook payload that failed signature
// verification and must never be retried.
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// ErrMissingMetadata marks a completed session whose metadata lacks the
// event reference needed for fulfillment.
var ErrMissingMetadata = errors.New("missing event_id in session metadata")
