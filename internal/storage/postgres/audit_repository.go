package postgres

import (
	"context"
	"fmt"

	"github.com/fanandmerch/tickets-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository appends to the api_logs table.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) InsertLog(ctx context.Context, entry domain.LogEntry) error {
	const stmt = `
INSERT INTO api_logs (created_at, endpoint, level, event_id, message)
VALUES ($1, $2, $3, NULLIF($4, ''), $5)`

	_, err := r.pool.Exec(ctx, stmt, entry.CreatedAt, entry.Endpoint, entry.Level, entry.EventID, entry.Message)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}
