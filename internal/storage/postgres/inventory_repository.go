package postgres

import (
	"context"
	"fmt"

	"github.com/fanandmerch/tickets-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InventoryRepository owns the events row and its ticket ledger. The
// tickets_sold column only ever moves through IncrementTicketsSold inside a
// transaction holding the event's row lock.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const eventColumns = `id, title, game_date, ticket_limit, tickets_sold, is_active, created_at`

// GetEvent is the advisory read path: no lock, no reservation.
func (r *InventoryRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return r.scanEvent(r.queryRow(ctx, query, eventID))
}

// GetEventForUpdate reads the event under a row write lock. Concurrent
// reservations for the same event serialize here.
func (r *InventoryRepository) GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	return r.scanEvent(r.queryRow(ctx, query, eventID))
}

func (r *InventoryRepository) scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	err := row.Scan(&e.ID, &e.Title, &e.GameDate, &e.TicketLimit, &e.TicketsSold, &e.IsActive, &e.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// IncrementTicketsSold advances the sold counter and returns the new value.
// The table's CHECK (tickets_sold <= ticket_limit) backs up the caller's
// capacity check; tripping it maps to ErrSoldOut.
func (r *InventoryRepository) IncrementTicketsSold(ctx context.Context, eventID string, quantity int) (int, error) {
	const stmt = `
UPDATE events
SET tickets_sold = tickets_sold + $2
WHERE id = $1
RETURNING tickets_sold`

	var sold int
	err := r.queryRow(ctx, stmt, eventID, quantity).Scan(&sold)
	if err != nil {
		if isCheckViolation(err) {
			return 0, domain.ErrSoldOut
		}
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("increment tickets_sold: %w", err)
	}
	return sold, nil
}

// HasTicketsForSession reports whether a payment session was already
// fulfilled. This is the idempotency ledger read.
func (r *InventoryRepository) HasTicketsForSession(ctx context.Context, sessionID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tickets WHERE payment_session_id = $1)`

	var exists bool
	if err := r.queryRow(ctx, query, sessionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check session tickets: %w", err)
	}
	return exists, nil
}

// InsertTickets writes one batch of tickets. The unique index on
// (payment_session_id, seq) rejects a concurrent duplicate of the same
// session as ErrDuplicateSession.
func (r *InventoryRepository) InsertTickets(ctx context.Context, tickets []domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (id, event_id, purchaser_email, payment_session_id, seq, status, checked_in, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, ticket := range tickets {
		_, err := r.exec(ctx, stmt,
			ticket.ID,
			ticket.EventID,
			ticket.PurchaserEmail,
			ticket.PaymentSessionID,
			ticket.Seq,
			ticket.Status,
			ticket.CheckedIn,
			ticket.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateSession
			}
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("insert ticket: %w", err)
		}
	}
	return nil
}

// CountTicketsForSession exists for verification in tests and admin tooling.
func (r *InventoryRepository) CountTicketsForSession(ctx context.Context, sessionID string) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE payment_session_id = $1`

	var count int
	if err := r.queryRow(ctx, query, sessionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count session tickets: %w", err)
	}
	return count, nil
}

func (r *InventoryRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *InventoryRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
