package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/msomdec/jobboard/internal/domain"
)

// MemoryCounter is an in-process fixed-window domain.CounterStore. It is safe
// for concurrent use; every Hit runs under one mutex.
type MemoryCounter struct {
	mu       sync.Mutex
	counters map[string]*counter
	now      func() time.Time
}

type counter struct {
	count  int
	start  time.Time
	window time.Duration
}

func (c *counter) expired(now time.Time) bool {
	return now.Sub(c.start) >= c.window
}

// NewMemoryCounter creates an empty counter store on the wall clock.
func NewMemoryCounter() *MemoryCounter {
	return NewMemoryCounterWithClock(time.Now)
}

// NewMemoryCounterWithClock creates a counter store reading time from now.
func NewMemoryCounterWithClock(now func() time.Time) *MemoryCounter {
	return &MemoryCounter{
		counters: make(map[string]*counter),
		now:      now,
	}
}

func (m *MemoryCounter) Hit(_ context.Context, key string, limit int, window time.Duration) (domain.Decision, error) {
	if limit <= 0 {
		limit = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	c, ok := m.counters[key]
	if !ok || c.expired(now) {
		m.counters[key] = &counter{count: 1, start: now, window: window}
		return domain.Decision{Allowed: true, Count: 1, Limit: limit, RetryAfter: window}, nil
	}

	left := c.start.Add(c.window).Sub(now)
	if c.count < limit {
		c.count++
		return domain.Decision{Allowed: true, Count: c.count, Limit: limit, RetryAfter: left}, nil
	}
	return domain.Decision{Allowed: false, Count: c.count, Limit: limit, RetryAfter: left}, nil
}

// Sweep drops counters whose window has elapsed and reports how many went.
// Dropping an expired counter is invisible to callers: the next Hit would
// have reset it anyway.
func (m *MemoryCounter) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, c := range m.counters {
		if c.expired(now) {
			delete(m.counters, key)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (m *MemoryCounter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// RateLimiter budgets one named action per identity: at most max attempts
// per window.
type RateLimiter struct {
	store  domain.CounterStore
	action string
	max    int
	window time.Duration
}

// NewRateLimiter creates a limiter for action backed by store.
func NewRateLimiter(store domain.CounterStore, action string, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{store: store, action: action, max: max, window: window}
}

// Action returns the counter name the limiter keys on.
func (l *RateLimiter) Action() string {
	return l.action
}

// Attempt consumes one attempt for userID. It returns a *domain.RateLimitError
// when the budget is exhausted.
func (l *RateLimiter) Attempt(ctx context.Context, userID int64) error {
	key := fmt.Sprintf("%s:%d", l.action, userID)
	d, err := l.store.Hit(ctx, key, l.max, l.window)
	if err != nil {
		return fmt.Errorf("rate limit %s: %w", l.action, err)
	}
	if !d.Allowed {
		return &domain.RateLimitError{Action: l.action, RetryAfter: d.RetryAfter}
	}
	return nil
}
