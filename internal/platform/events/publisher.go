package events

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	redisplatform "raffle-tool-backend/internal/platform/redis"
)

// StreamKey is the Redis stream carrying raffle notifications for
// external consumers (bots, indexers, frontends).
const StreamKey = "raffle:events"

// Publisher emits raffle events to a Redis stream.
type Publisher struct {
	rdb *redisplatform.Client
}

func NewPublisher(rdb *redisplatform.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// Publish appends one event to the stream. The event type goes into the
// "type" field; payload fields are flattened alongside it.
func (p *Publisher) Publish(ctx context.Context, eventType string, fields map[string]interface{}) error {
	values := map[string]interface{}{
		"type":       eventType,
		"emitted_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	for k, v := range fields {
		values[k] = v
	}

	return p.rdb.XAdd(ctx, &goredis.XAddArgs{
		Stream: StreamKey,
		Values: values,
	}).Err()
}
