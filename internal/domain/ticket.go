package domain

import "time"

type TicketStatus string

const (
	// TicketStatusPaid is the only status the fulfillment path produces.
	TicketStatusPaid TicketStatus = "paid"
)

// Ticket is one unit of a fulfilled purchase. All tickets from one purchase
// share a PaymentSessionID; Seq numbers them within the batch and backs the
// uniqueness guard that makes duplicate webhook deliveries harmless.
type Ticket struct {
	ID               string
	EventID          string
	PurchaserEmail   string
	PaymentSessionID string
	Seq              int
	Status           TicketStatus
	CheckedIn        bool
	CreatedAt        time.Time
}
