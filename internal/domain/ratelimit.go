package domain

import (
	"context"
	"time"
)

// Decision is the outcome of one attempt against a rate-limit counter.
type Decision struct {
	Allowed    bool
	Count      int
	Limit      int
	RetryAfter time.Duration // time left in the current window
}

// CounterStore holds fixed-window counters. Hit performs the whole
// check-then-increment for key as one atomic step: a missing or expired
// counter restarts at 1, a counter below limit is incremented, and a full
// counter is left unchanged and reported as not allowed.
type CounterStore interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}
