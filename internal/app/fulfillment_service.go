package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fanandmerch/tickets-api/internal/clock"
	"github.com/fanandmerch/tickets-api/internal/domain"
)

type FulfillmentRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	HasTicketsForSession(ctx context.Context, sessionID string) (bool, error)
	GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error)
	IncrementTicketsSold(ctx context.Context, eventID string, quantity int) (int, error)
	InsertTickets(ctx context.Context, tickets []domain.Ticket) error
}

type FulfillmentOutcome string

const (
	// OutcomeIssued means capacity was reserved and tickets were written.
	OutcomeIssued FulfillmentOutcome = "issued"
	// OutcomeDeduped means this payment session was already fulfilled.
	OutcomeDeduped FulfillmentOutcome = "deduped"
	// OutcomeSoldOut means the payment is captured but no capacity remains.
	// The notification is acknowledged so the provider stops redelivering;
	// the unresolved payment is flagged to operators via the audit log.
	OutcomeSoldOut FulfillmentOutcome = "sold_out_acknowledged"
)

type FulfillmentResult struct {
	Outcome      FulfillmentOutcome
	NewSoldCount int
}

// FulfillmentService turns verified payment completions into ticket rows,
// exactly once per payment session under at-least-once delivery.
type FulfillmentService struct {
	repo  FulfillmentRepository
	clock clock.Clock
	audit *Auditor
}

func NewFulfillmentService(repo FulfillmentRepository, clk clock.Clock, audit *Auditor) *FulfillmentService {
	return &FulfillmentService{repo: repo, clock: clk, audit: audit}
}

type PaymentCompletedInput struct {
	SessionID      string
	EventID        string
	Quantity       int
	PurchaserEmail string
}

// HandlePaymentCompleted reserves capacity and issues tickets for one
// completed payment. Dedup by session id plus the unique constraint on
// (payment_session_id, seq) guarantees a redelivered or racing duplicate
// never double-counts: the losing transaction hits the constraint, rolls the
// increment back, and is reported as deduped.
//
// Errors returned here are transient store failures; the webhook surfaces
// them as 500 so the provider redelivers. Capacity rejection is not an error.
func (s *FulfillmentService) HandlePaymentCompleted(ctx context.Context, in PaymentCompletedInput) (FulfillmentResult, error) {
	if in.SessionID == "" {
		return FulfillmentResult{}, errors.New("session id is required")
	}
	if in.Quantity < 1 {
		return FulfillmentResult{}, fmt.Errorf("quantity %d: %w", in.Quantity, domain.ErrInvalidQuantity)
	}

	now := s.clock.Now()
	var result FulfillmentResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		fulfilled, err := s.repo.HasTicketsForSession(txCtx, in.SessionID)
		if err != nil {
			return err
		}
		if fulfilled {
			result = FulfillmentResult{Outcome: OutcomeDeduped}
			return nil
		}

		event, err := s.repo.GetEventForUpdate(txCtx, in.EventID)
		if err != nil {
			return err
		}

		if !event.CanReserve(in.Quantity) {
			result = FulfillmentResult{Outcome: OutcomeSoldOut}
			return nil
		}

		newSold, err := s.repo.IncrementTicketsSold(txCtx, in.EventID, in.Quantity)
		if err != nil {
			return err
		}

		tickets := make([]domain.Ticket, 0, in.Quantity)
		for seq := 1; seq <= in.Quantity; seq++ {
			tickets = append(tickets, domain.Ticket{
				ID:               uuid.NewString(),
				EventID:          in.EventID,
				PurchaserEmail:   in.PurchaserEmail,
				PaymentSessionID: in.SessionID,
				Seq:              seq,
				Status:           domain.TicketStatusPaid,
				CreatedAt:        now,
			})
		}
		if err := s.repo.InsertTickets(txCtx, tickets); err != nil {
			// A concurrent delivery of the same session won the insert.
			// Returning the error rolls our increment back.
			return err
		}

		result = FulfillmentResult{Outcome: OutcomeIssued, NewSoldCount: newSold}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSession) {
			s.audit.Record(ctx, domain.LogLevelInfo, "/payment-webhook", in.EventID,
				fmt.Sprintf("duplicate delivery for session %s", in.SessionID))
			return FulfillmentResult{Outcome: OutcomeDeduped}, nil
		}
		return FulfillmentResult{}, err
	}

	switch result.Outcome {
	case OutcomeDeduped:
		s.audit.Record(ctx, domain.LogLevelInfo, "/payment-webhook", in.EventID,
			fmt.Sprintf("duplicate delivery for session %s", in.SessionID))
	case OutcomeSoldOut:
		// Captured payment with nothing left to issue. Refunding is a
		// product decision, not ours; make sure operators see it.
		s.audit.Record(ctx, domain.LogLevelAlert, "/payment-webhook", in.EventID,
			fmt.Sprintf("payment captured for session %s qty=%d but event is sold out or inactive", in.SessionID, in.Quantity))
	case OutcomeIssued:
		s.audit.Record(ctx, domain.LogLevelInfo, "/payment-webhook", in.EventID,
			fmt.Sprintf("issued %d tickets for session %s", in.Quantity, in.SessionID))
	}

	return result, nil
}
