package service

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// MessageQuota enforces the per-sender hourly and daily message caps
type MessageQuota interface {
	Allow(ctx context.Context, senderID string, hourly, daily int) (bool, error)
}

// quotaScript atomically checks both windows and increments only when the
// send is admitted, so two concurrent sends can never both pass a stale
// count.
var quotaScript = redis.NewScript(`
local hour_key = KEYS[1]
local day_key = KEYS[2]
local hourly = tonumber(ARGV[1])
local daily = tonumber(ARGV[2])

local h = tonumber(redis.call('GET', hour_key) or '0')
local d = tonumber(redis.call('GET', day_key) or '0')
if h >= hourly or d >= daily then
    return 0
end

h = redis.call('INCR', hour_key)
if h == 1 then
    redis.call('EXPIRE', hour_key, 3600)
end
local dd = redis.call('INCR', day_key)
if dd == 1 then
    redis.call('EXPIRE', day_key, 86400)
end
return 1
`)

// RedisMessageQuota is the Redis-backed quota implementation
type RedisMessageQuota struct {
	rdb *redis.Client
}

// NewRedisMessageQuota creates a RedisMessageQuota
func NewRedisMessageQuota(rdb *redis.Client) *RedisMessageQuota {
	return &RedisMessageQuota{rdb: rdb}
}

// Allow reports whether the sender may send one more message now
func (q *RedisMessageQuota) Allow(ctx context.Context, senderID string, hourly, daily int) (bool, error) {
	keys := []string{
		"quota:msg:hour:" + senderID,
		"quota:msg:day:" + senderID,
	}
	result, err := quotaScript.Run(ctx, q.rdb, keys, hourly, daily).Int64()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}
