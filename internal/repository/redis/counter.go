package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/msomdec/jobboard/internal/domain"
)

// hitScript runs the whole fixed-window step server-side so concurrent hits
// on one key cannot both observe a free slot. The window lives in the key TTL.
var hitScript = goredis.NewScript(`
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local count = tonumber(redis.call("GET", KEYS[1]) or "0")
if count == 0 then
  redis.call("SET", KEYS[1], 1, "PX", window)
  return {1, window}
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = window
  redis.call("PEXPIRE", KEYS[1], window)
end
if count < limit then
  redis.call("INCR", KEYS[1])
  return {count + 1, ttl}
end
return {-count, ttl}
`)

// CounterStore implements domain.CounterStore on a shared Redis so every
// process behind the same Redis draws from one budget per key.
type CounterStore struct {
	client *goredis.Client
	prefix string
}

var _ domain.CounterStore = (*CounterStore)(nil)

// NewCounterStore creates a CounterStore. Keys are namespaced with "rl:".
func NewCounterStore(client *goredis.Client) *CounterStore {
	return &CounterStore{client: client, prefix: "rl:"}
}

func (s *CounterStore) Hit(ctx context.Context, key string, limit int, window time.Duration) (domain.Decision, error) {
	if limit <= 0 {
		limit = 1
	}
	windowMs := window.Milliseconds()
	if windowMs <= 0 {
		windowMs = 1
	}

	res, err := hitScript.Run(ctx, s.client, []string{s.prefix + key}, limit, windowMs).Int64Slice()
	if err != nil {
		return domain.Decision{}, fmt.Errorf("run rate limit script: %w", err)
	}
	if len(res) != 2 {
		return domain.Decision{}, fmt.Errorf("rate limit script: unexpected result %v", res)
	}

	count, ttl := res[0], res[1]
	allowed := count > 0
	if !allowed {
		count = -count
	}
	return domain.Decision{
		Allowed:    allowed,
		Count:      int(count),
		Limit:      limit,
		RetryAfter: time.Duration(ttl) * time.Millisecond,
	}, nil
}
