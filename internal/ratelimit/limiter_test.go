package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fanandmerch/tickets-api/internal/clock"
)

func TestLimiter_AdmitsUpToMax(t *testing.T) {
	t.Parallel()

	clk := clock.NewMutable(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	l := New(3, time.Minute, clk)

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("1.2.3.4")
		if !allowed {
			t.Fatalf("expected request %d to be admitted", i+1)
		}
	}

	allowed, retryAfter := l.Allow("1.2.3.4")
	if allowed {
		t.Fatalf("expected request over limit to be rejected")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Fatalf("expected retryAfter in (0, window], got %v", retryAfter)
	}
}

func TestLimiter_WindowReset(t *testing.T) {
	t.Parallel()

	clk := clock.NewMutable(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	l := New(1, time.Minute, clk)

	if allowed, _ := l.Allow("k"); !allowed {
		t.Fatalf("expected first request to be admitted")
	}
	if allowed, _ := l.Allow("k"); allowed {
		t.Fatalf("expected second request in window to be rejected")
	}

	clk.Advance(time.Minute + time.Second)

	if allowed, _ := l.Allow("k"); !allowed {
		t.Fatalf("expected request after window lapse to be admitted")
	}
}

func TestLimiter_RetryAfterShrinks(t *testing.T) {
	t.Parallel()

	clk := clock.NewMutable(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	l := New(1, 5*time.Minute, clk)

	l.Allow("k")
	_, first := l.Allow("k")

	clk.Advance(2 * time.Minute)
	_, second := l.Allow("k")

	if second >= first {
		t.Fatalf("expected retryAfter to shrink as the window elapses: first=%v second=%v", first, second)
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	clk := clock.NewMutable(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	l := New(1, time.Minute, clk)

	l.Allow("a")
	if allowed, _ := l.Allow("b"); !allowed {
		t.Fatalf("expected a fresh key to be admitted")
	}
}

func TestLimiter_ConcurrentCallersNeverExceedMax(t *testing.T) {
	t.Parallel()

	clk := clock.NewMutable(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	const max = 10
	l := New(max, time.Minute, clk)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := l.Allow("shared"); allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != max {
		t.Fatalf("expected exactly %d admitted, got %d", max, admitted)
	}

	// Other keys still unaffected.
	for i := 0; i < max; i++ {
		if allowed, _ := l.Allow(fmt.Sprintf("other-%d", i)); !allowed {
			t.Fatalf("expected unrelated key %d to be admitted", i)
		}
	}
}
