package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/fanandmerch/tickets-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, title, game_date, ticket_limit, tickets_sold, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, stmt,
		event.ID,
		event.Title,
		event.GameDate,
		event.TicketLimit,
		event.TicketsSold,
		event.IsActive,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY game_date ASC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.GameDate, &e.TicketLimit, &e.TicketsSold, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *AdminRepository) SetEventActive(ctx context.Context, eventID string, active bool) error {
	const stmt = `UPDATE events SET is_active = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt, eventID, active)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set event active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *AdminRepository) ListRecentLogs(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	const query = `
SELECT id, created_at, endpoint, level, COALESCE(event_id, ''), message
FROM api_logs
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		var entry domain.LogEntry
		if err := rows.Scan(&entry.ID, &entry.CreatedAt, &entry.Endpoint, &entry.Level, &entry.EventID, &entry.Message); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *AdminRepository) CountLogs(ctx context.Context, endpoint, messageContains string, since time.Time) (int, error) {
	var row pgx.Row
	if messageContains == "" {
		const query = `SELECT COUNT(*) FROM api_logs WHERE endpoint = $1 AND created_at >= $2`
		row = r.pool.QueryRow(ctx, query, endpoint, since)
	} else {
		const query = `SELECT COUNT(*) FROM api_logs WHERE endpoint = $1 AND created_at >= $2 AND message ILIKE '%' || $3 || '%'`
		row = r.pool.QueryRow(ctx, query, endpoint, since, messageContains)
	}

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count logs: %w", err)
	}
	return count, nil
}

func (r *AdminRepository) CountTicketsSince(ctx context.Context, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE created_at >= $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return count, nil
}
