package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fanandmerch/tickets-api/internal/domain"
	"github.com/fanandmerch/tickets-api/internal/testutil"
	"github.com/google/uuid"
)

func TestInventoryRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewInventoryRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("GetEvent returns event and sentinels", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		eventID := testutil.InsertEvent(t, ctx, pool, "Home Opener", 100, 10, true)

		event, err := repo.GetEvent(ctx, eventID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if event.ID != eventID || event.TicketLimit != 100 || event.TicketsSold != 10 || !event.IsActive {
			t.Fatalf("unexpected event: %+v", event)
		}

		if _, err := repo.GetEvent(ctx, "00000000-0000-0000-0000-000000000001"); err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
		if _, err := repo.GetEvent(ctx, "not-a-uuid"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("IncrementTicketsSold returns new count and trips check at limit", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		eventID := testutil.InsertEvent(t, ctx, pool, "Home Opener", 5, 3, true)

		sold, err := repo.IncrementTicketsSold(ctx, eventID, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sold != 5 {
			t.Fatalf("expected sold 5, got %d", sold)
		}

		if _, err := repo.IncrementTicketsSold(ctx, eventID, 1); err != domain.ErrSoldOut {
			t.Fatalf("expected ErrSoldOut from check constraint, got %v", err)
		}
	})

	t.Run("InsertTickets enforces session uniqueness", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		eventID := testutil.InsertEvent(t, ctx, pool, "Home Opener", 10, 0, true)
		now := time.Now().UTC()

		batch := []domain.Ticket{
			{ID: uuid.NewString(), EventID: eventID, PaymentSessionID: "cs_1", Seq: 1, Status: domain.TicketStatusPaid, CreatedAt: now},
			{ID: uuid.NewString(), EventID: eventID, PaymentSessionID: "cs_1", Seq: 2, Status: domain.TicketStatusPaid, CreatedAt: now},
		}
		if err := repo.InsertTickets(ctx, batch); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		dup := []domain.Ticket{
			{ID: uuid.NewString(), EventID: eventID, PaymentSessionID: "cs_1", Seq: 1, Status: domain.TicketStatusPaid, CreatedAt: now},
		}
		if err := repo.InsertTickets(ctx, dup); !errors.Is(err, domain.ErrDuplicateSession) {
			t.Fatalf("expected ErrDuplicateSession, got %v", err)
		}

		exists, err := repo.HasTicketsForSession(ctx, "cs_1")
		if err != nil || !exists {
			t.Fatalf("expected session cs_1 fulfilled, got exists=%v err=%v", exists, err)
		}
		exists, err = repo.HasTicketsForSession(ctx, "cs_other")
		if err != nil || exists {
			t.Fatalf("expected session cs_other unfulfilled, got exists=%v err=%v", exists, err)
		}

		count, err := repo.CountTicketsForSession(ctx, "cs_1")
		if err != nil || count != 2 {
			t.Fatalf("expected 2 tickets for cs_1, got %d err=%v", count, err)
		}
	})

	t.Run("concurrent reserves on the last ticket admit exactly one", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		eventID := testutil.InsertEvent(t, ctx, pool, "Final", 1, 0, true)

		reserve := func() error {
			return repo.WithTx(ctx, func(txCtx context.Context) error {
				event, err := repo.GetEventForUpdate(txCtx, eventID)
				if err != nil {
					return err
				}
				if !event.CanReserve(1) {
					return domain.ErrSoldOut
				}
				_, err = repo.IncrementTicketsSold(txCtx, eventID, 1)
				return err
			})
		}

		var wg sync.WaitGroup
		results := make(chan error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- reserve()
			}()
		}
		wg.Wait()
		close(results)

		var ok, soldOut int
		for err := range results {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrSoldOut):
				soldOut++
			default:
				t.Fatalf("unexpected reserve error: %v", err)
			}
		}
		if ok != 1 || soldOut != 1 {
			t.Fatalf("expected exactly one winner, got ok=%d soldOut=%d", ok, soldOut)
		}

		event, err := repo.GetEvent(ctx, eventID)
		if err != nil {
			t.Fatalf("get event: %v", err)
		}
		if event.TicketsSold != 1 {
			t.Fatalf("expected tickets_sold 1, got %d", event.TicketsSold)
		}
	})
}
