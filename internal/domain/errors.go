package domain

import "errors"

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEventInactive    = errors.New("event is inactive")
	ErrSoldOut          = errors.New("sold out")
	ErrInvalidQuantity  = errors.New("invalid quantity (must be 1-10)")
	ErrEventIDRequired  = errors.New("event_id is required")
	ErrDuplicateSession = errors.New("payment session already fulfilled")
	ErrInvalidID        = errors.New("invalid id")
	ErrTitleRequired    = errors.New("event title is required")
	ErrInvalidLimit     = errors.New("ticket_limit must be positive")
)
