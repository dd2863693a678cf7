package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"
)

// windowScript counts a hit and makes sure the window key expires. Keys left without a TTL
// (a failed write, a manual SET) get one on their next hit instead of blocking forever.
var windowScript = valkey.NewLuaScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 or redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// ValkeyLimiter shares fixed windows between replicas.
type ValkeyLimiter struct {
	client valkey.Client
	prefix string
	limit  int
	window time.Duration
}

// NewValkeyLimiter constructs a Valkey-backed limiter.
func NewValkeyLimiter(client valkey.Client, prefix string, limit int, window time.Duration) *ValkeyLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &ValkeyLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow increments the window counter for key and sets its expiry in the same script call.
func (l *ValkeyLimiter) Allow(ctx context.Context, key string) (bool, error) {
	fullKey := l.prefix + ":" + key
	windowMs := strconv.FormatInt(l.window.Milliseconds(), 10)
	count, err := windowScript.Exec(ctx, l.client, []string{fullKey}, []string{windowMs}).AsInt64()
	if err != nil {
		return false, err
	}
	return count <= int64(l.limit), nil
}

var _ Limiter = (*ValkeyLimiter)(nil)
