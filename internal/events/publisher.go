// Package events publishes discovery events for downstream consumers.
package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ChannelJobsDiscovered carries one message per completed scrape cycle.
const ChannelJobsDiscovered = "EVENT_JOBS_DISCOVERED"

// Publisher emits service events. Publishing is always best-effort; a failed
// publish never fails the operation that triggered it.
type Publisher interface {
	JobsDiscovered(ctx context.Context, searchKey string, count int)
}

// RedisPublisher publishes events on Redis pub/sub channels.
type RedisPublisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedis returns a Publisher backed by the given Redis client.
func NewRedis(rdb *redis.Client, log zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, log: log.With().Str("component", "events").Logger()}
}

func (p *RedisPublisher) JobsDiscovered(ctx context.Context, searchKey string, count int) {
	payload, _ := json.Marshal(map[string]any{
		"type":      ChannelJobsDiscovered,
		"searchKey": searchKey,
		"count":     count,
	})
	if err := p.rdb.Publish(ctx, ChannelJobsDiscovered, payload).Err(); err != nil {
		p.log.Warn().Err(err).Msg("publish EVENT_JOBS_DISCOVERED failed")
	}
}

// Noop discards all events. Used in tests and when Redis is not configured.
type Noop struct{}

func (Noop) JobsDiscovered(context.Context, string, int) {}
