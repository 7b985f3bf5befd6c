package domain

import "time"

// Event is a ticketed event with a hard cap on tickets sold.
type Event struct {
	ID          string
	Title       string
	GameDate    time.Time
	TicketLimit int
	TicketsSold int
	IsActive    bool
	CreatedAt   time.Time
}

// EventState is the sale state derived from (is_active, tickets_sold, ticket_limit).
type EventState string

const (
	EventStateOpen     EventState = "open"
	EventStateSoldOut  EventState = "sold_out"
	EventStateInactive EventState = "inactive"
)

// State derives the sale state. Inactive wins over sold out so a deactivated
// event never reports capacity.
func (e Event) State() EventState {
	if !e.IsActive {
		return EventStateInactive
	}
	if e.TicketsSold >= e.TicketLimit {
		return EventStateSoldOut
	}
	return EventStateOpen
}

// Remaining returns unsold capacity, never negative.
func (e Event) Remaining() int {
	if r := e.TicketLimit - e.TicketsSold; r > 0 {
		return r
	}
	return 0
}

// CanReserve reports whether quantity more tickets fit under the limit.
func (e Event) CanReserve(quantity int) bool {
	return e.State() == EventStateOpen && e.TicketsSold+quantity <= e.TicketLimit
}

// Availability is the public answer to "can I still buy this". It carries no
// raw counts on purpose.
type Availability struct {
	SoldOut  bool
	LowStock bool
}

// AvailabilityOf classifies an event against the low-stock thresholds: stock
// is low when remaining is at or under floor tickets, or at or under ratio of
// the limit.
func AvailabilityOf(e Event, floor int, ratio float64) Availability {
	if e.State() != EventStateOpen {
		return Availability{SoldOut: true}
	}
	remaining := e.Remaining()
	limit := e.TicketLimit
	if limit < 1 {
		limit = 1
	}
	low := remaining <= floor || float64(remaining)/float64(limit) <= ratio
	return Availability{SoldOut: false, LowStock: low}
}

// Unavailable is the fail-closed availability returned whenever state cannot
// be verified.
func Unavailable() Availability {
	return Availability{SoldOut: true, LowStock: false}
}
