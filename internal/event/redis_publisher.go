package event

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisPublisher mirrors every bus event onto a Redis pub/sub channel so
// out-of-process consumers (notification workers, websocket gateways) can
// pick them up without coupling the engine to their transport.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	logger  zerolog.Logger
}

// NewRedisPublisher creates a RedisPublisher
func NewRedisPublisher(rdb *redis.Client, channel string, logger zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel, logger: logger}
}

// Attach subscribes the publisher to all events on the bus
func (p *RedisPublisher) Attach(bus *Bus) {
	bus.Subscribe("*", p.publish)
}

func (p *RedisPublisher) publish(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", e.Type).Msg("failed to marshal event")
		return
	}
	if err := p.rdb.Publish(context.Background(), p.channel, data).Err(); err != nil {
		p.logger.Error().Err(err).Str("event_type", e.Type).Msg("failed to publish event to redis")
	}
}
