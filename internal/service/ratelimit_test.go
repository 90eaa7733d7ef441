package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/msomdec/jobboard/internal/domain"
	"github.com/msomdec/jobboard/internal/service"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestRateLimiter_OneAttemptPerWindow(t *testing.T) {
	clock := newFakeClock()
	limiter := service.NewRateLimiter(service.NewMemoryCounterWithClock(clock.Now), "content", 1, 90*time.Minute)
	ctx := context.Background()

	if err := limiter.Attempt(ctx, 1); err != nil {
		t.Fatalf("first attempt should pass: %v", err)
	}

	clock.Advance(30 * time.Minute)
	err := limiter.Attempt(ctx, 1)
	var rl *domain.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatal("RateLimitError must match ErrRateLimited")
	}
	if rl.RetryAfter != 60*time.Minute {
		t.Fatalf("expected 60m retry-after, got %s", rl.RetryAfter)
	}

	clock.Advance(60 * time.Minute)
	if err := limiter.Attempt(ctx, 1); err != nil {
		t.Fatalf("attempt after window should pass: %v", err)
	}
	if err := limiter.Attempt(ctx, 1); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("counter should have reset to 1 and be full again, got %v", err)
	}
}

func TestRateLimiter_IdentitiesAreIndependent(t *testing.T) {
	limiter := service.NewRateLimiter(service.NewMemoryCounter(), "content", 1, time.Hour)
	ctx := context.Background()

	if err := limiter.Attempt(ctx, 1); err != nil {
		t.Fatalf("user 1 first attempt: %v", err)
	}
	if err := limiter.Attempt(ctx, 1); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("user 1 second attempt should be limited, got %v", err)
	}
	if err := limiter.Attempt(ctx, 2); err != nil {
		t.Fatalf("user 2 has its own budget: %v", err)
	}
}

func TestRateLimiter_ActionsAreIndependent(t *testing.T) {
	store := service.NewMemoryCounter()
	jobs := service.NewRateLimiter(store, "content", 1, time.Hour)
	comments := service.NewRateLimiter(store, "comment", 1, time.Hour)
	ctx := context.Background()

	if err := jobs.Attempt(ctx, 1); err != nil {
		t.Fatalf("jobs: %v", err)
	}
	if err := comments.Attempt(ctx, 1); err != nil {
		t.Fatalf("comments share no budget with jobs: %v", err)
	}
}

func TestMemoryCounter_CountsUpToLimit(t *testing.T) {
	store := service.NewMemoryCounter()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := store.Hit(ctx, "k", 3, time.Minute)
		if err != nil {
			t.Fatalf("Hit: %v", err)
		}
		if !d.Allowed || d.Count != i {
			t.Fatalf("hit %d: unexpected decision %+v", i, d)
		}
	}
	d, _ := store.Hit(ctx, "k", 3, time.Minute)
	if d.Allowed || d.Count != 3 {
		t.Fatalf("4th hit should be rejected without incrementing, got %+v", d)
	}
}

func TestMemoryCounter_ConcurrentHitsNeverExceedLimit(t *testing.T) {
	store := service.NewMemoryCounter()
	ctx := context.Background()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d, _ := store.Hit(ctx, "same-user", 5, time.Hour); d.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	if allowed.Load() != 5 {
		t.Fatalf("expected exactly 5 allowed, got %d", allowed.Load())
	}
}

func TestMemoryCounter_SweepDropsExpired(t *testing.T) {
	clock := newFakeClock()
	store := service.NewMemoryCounterWithClock(clock.Now)
	ctx := context.Background()

	store.Hit(ctx, "short", 1, time.Minute)
	store.Hit(ctx, "long", 1, time.Hour)

	clock.Advance(2 * time.Minute)
	if n := store.Sweep(); n != 1 {
		t.Fatalf("expected 1 expired counter swept, got %d", n)
	}

	d, _ := store.Hit(ctx, "long", 1, time.Hour)
	if d.Allowed {
		t.Fatal("unexpired counter must survive the sweep")
	}
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, int, time.Duration) (domain.Decision, error) {
	return domain.Decision{}, errors.New("connection refused")
}

func TestRateLimiter_StoreErrorIsNotAnAllow(t *testing.T) {
	limiter := service.NewRateLimiter(failingStore{}, "content", 1, time.Hour)

	err := limiter.Attempt(context.Background(), 1)
	if err == nil {
		t.Fatal("store failure must surface as an error")
	}
	if errors.Is(err, domain.ErrRateLimited) {
		t.Fatal("store failure is not a rate-limit rejection")
	}
}
