package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fanandmerch/tickets-api/internal/clock"
	"github.com/fanandmerch/tickets-api/internal/domain"
)

type AdminRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	ListEvents(ctx context.Context, limit int) ([]domain.Event, error)
	SetEventActive(ctx context.Context, eventID string, active bool) error
	ListRecentLogs(ctx context.Context, limit int) ([]domain.LogEntry, error)
	CountLogs(ctx context.Context, endpoint, messageContains string, since time.Time) (int, error)
	CountTicketsSince(ctx context.Context, since time.Time) (int, error)
}

const (
	adminEventListLimit = 50
	adminLogListLimit   = 50
	analyticsWindow     = 7 * 24 * time.Hour
)

type AdminService struct {
	repo  AdminRepository
	clock clock.Clock
}

func NewAdminService(repo AdminRepository, clk clock.Clock) *AdminService {
	return &AdminService{repo: repo, clock: clk}
}

type CreateEventInput struct {
	Title       string
	GameDate    *time.Time
	TicketLimit int
}

func (s *AdminService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if in.Title == "" {
		return domain.Event{}, domain.ErrTitleRequired
	}
	if in.TicketLimit <= 0 {
		return domain.Event{}, domain.ErrInvalidLimit
	}

	now := s.clock.Now()
	gameDate := now
	if in.GameDate != nil {
		gameDate = *in.GameDate
	}

	event := domain.Event{
		ID:          uuid.NewString(),
		Title:       in.Title,
		GameDate:    gameDate,
		TicketLimit: in.TicketLimit,
		TicketsSold: 0,
		IsActive:    true,
		CreatedAt:   now,
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *AdminService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx, adminEventListLimit)
}

func (s *AdminService) SetEventActive(ctx context.Context, eventID string, active bool) error {
	return s.repo.SetEventActive(ctx, eventID, active)
}

func (s *AdminService) RecentLogs(ctx context.Context) ([]domain.LogEntry, error) {
	return s.repo.ListRecentLogs(ctx, adminLogListLimit)
}

// AnalyticsSummary aggregates the last seven days of traffic.
type AnalyticsSummary struct {
	StatusChecks7d     int
	CheckoutsCreated7d int
	TicketsIssued7d    int
}

func (s *AdminService) Analytics(ctx context.Context) (AnalyticsSummary, error) {
	since := s.clock.Now().Add(-analyticsWindow)

	statusChecks, err := s.repo.CountLogs(ctx, "/status", "", since)
	if err != nil {
		return AnalyticsSummary{}, err
	}
	checkouts, err := s.repo.CountLogs(ctx, "/checkout", "session created", since)
	if err != nil {
		return AnalyticsSummary{}, err
	}
	tickets, err := s.repo.CountTicketsSince(ctx, since)
	if err != nil {
		return AnalyticsSummary{}, err
	}

	return AnalyticsSummary{
		StatusChecks7d:     statusChecks,
		CheckoutsCreated7d: checkouts,
		TicketsIssued7d:    tickets,
	}, nil
}
