package messaging

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/config"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
)

// StreamClient is the subset of *redis.Client used for stream publishing.
type StreamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisStreamPublisher appends auth attempt events to a Redis stream,
// trimming it approximately to maxLen entries.
type RedisStreamPublisher struct {
	client StreamClient
	stream string
	maxLen int64
	cb     *gobreaker.CircuitBreaker
}

var _ ports.AuthEventPublisher = (*RedisStreamPublisher)(nil)

func NewRedisStreamPublisher(client StreamClient, stream string, maxLen int64) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
		cb:     config.NewCircuitBreaker(config.BreakerRedis),
	}
}

func (p *RedisStreamPublisher) PublishAuthAttempt(ctx context.Context, evt ports.AuthAttemptEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return oops.Code("EVENT_ENCODE_FAILED").With("event_id", evt.EventID).Wrap(err)
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			MaxLen: p.maxLen,
			Approx: true,
			Values: map[string]interface{}{
				"event_id":   evt.EventID,
				"event_type": ports.AuthAttemptEventType,
				"payload":    string(body),
			},
		}).Err()
	})
	if err != nil {
		return oops.Code("REDIS_PUBLISH_FAILED").
			With("event_id", evt.EventID).
			With("stream", p.stream).
			Wrap(err)
	}
	return nil
}

// Ping checks connectivity for readiness checks.
func (p *RedisStreamPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// BreakerState exposes the publish breaker for readiness checks.
func (p *RedisStreamPublisher) BreakerState() gobreaker.State {
	return p.cb.State()
}
