package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fanandmerch/tickets-api/internal/domain"
	"github.com/fanandmerch/tickets-api/internal/payment"
)

// InventoryReader is the advisory, non-locking read path over event
// inventory.
type InventoryReader interface {
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
}

const (
	minQuantity = 1
	maxQuantity = 10
)

const defaultProviderTimeout = 15 * time.Second

// CheckoutService validates purchase requests and opens payment sessions.
// It never reserves capacity: a session may be abandoned, and the sold count
// only moves on confirmed payment.
type CheckoutService struct {
	inventory       InventoryReader
	payments        payment.Provider
	audit           *Auditor
	providerTimeout time.Duration
}

func NewCheckoutService(inventory InventoryReader, payments payment.Provider, audit *Auditor, opts ...CheckoutServiceOption) *CheckoutService {
	svc := &CheckoutService{
		inventory:       inventory,
		payments:        payments,
		audit:           audit,
		providerTimeout: defaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CheckoutServiceOption func(*CheckoutService)

// WithProviderTimeout overrides the deadline on the outbound payment call.
func WithProviderTimeout(d time.Duration) CheckoutServiceOption {
	return func(s *CheckoutService) {
		if d > 0 {
			s.providerTimeout = d
		}
	}
}

type StartCheckoutInput struct {
	EventID        string
	Quantity       int
	PurchaserEmail string
	ClientKey      string
}

// Start runs the advisory capacity check and creates a payment session. The
// capacity check is a fast-fail courtesy only; the authoritative decrement
// happens at fulfillment.
func (s *CheckoutService) Start(ctx context.Context, in StartCheckoutInput) (payment.Session, error) {
	if in.EventID == "" {
		return payment.Session{}, domain.ErrEventIDRequired
	}
	if in.Quantity < minQuantity || in.Quantity > maxQuantity {
		return payment.Session{}, domain.ErrInvalidQuantity
	}

	event, err := s.inventory.GetEvent(ctx, in.EventID)
	if err != nil {
		return payment.Session{}, err
	}
	switch event.State() {
	case domain.EventStateInactive:
		return payment.Session{}, domain.ErrEventInactive
	case domain.EventStateSoldOut:
		return payment.Session{}, domain.ErrSoldOut
	}
	if !event.CanReserve(in.Quantity) {
		return payment.Session{}, domain.ErrSoldOut
	}

	// No store transaction is open here; only the provider call waits on
	// this deadline.
	callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	session, err := s.payments.CreateSession(callCtx, payment.CreateSessionInput{
		EventID:        event.ID,
		EventTitle:     event.Title,
		Quantity:       in.Quantity,
		PurchaserEmail: in.PurchaserEmail,
	})
	if err != nil {
		return payment.Session{}, fmt.Errorf("payment session: %w", err)
	}

	s.audit.Record(ctx, domain.LogLevelInfo, "/checkout", event.ID,
		fmt.Sprintf("session created qty=%d session_id=%s ip=%s", in.Quantity, session.ID, in.ClientKey))

	return session, nil
}
