package app

import (
	"context"
	"errors"
	"log"

	"github.com/fanandmerch/tickets-api/internal/domain"
)

// StatusService answers availability probes from unauthenticated pages.
type StatusService struct {
	inventory InventoryReader
	floor     int
	ratio     float64
	logger    *log.Logger
}

func NewStatusService(inventory InventoryReader, lowStockFloor int, lowStockRatio float64, logger *log.Logger) *StatusService {
	if logger == nil {
		logger = log.Default()
	}
	return &StatusService{
		inventory: inventory,
		floor:     lowStockFloor,
		ratio:     lowStockRatio,
		logger:    logger,
	}
}

// Status never returns an error: when the event is missing or the read fails
// it reports sold out. Telling a caller "you can buy" requires proof.
func (s *StatusService) Status(ctx context.Context, eventID string) domain.Availability {
	event, err := s.inventory.GetEvent(ctx, eventID)
	if err != nil {
		if !errors.Is(err, domain.ErrEventNotFound) && !errors.Is(err, domain.ErrInvalidID) {
			s.logger.Printf("WARN: status read failed event=%s: %v", eventID, err)
		}
		return domain.Unavailable()
	}
	return domain.AvailabilityOf(event, s.floor, s.ratio)
}
