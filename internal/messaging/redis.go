package messaging

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStreamPublisher publishes alert messages onto Redis streams, one
// stream per queue name. Used when no AMQP broker is configured.
type RedisStreamPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStreamPublisher wraps an existing client.
func NewRedisStreamPublisher(client *redis.Client, logger *zap.Logger) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, logger: logger}
}

// PublishToQueue appends the payload to the stream named after the queue.
func (p *RedisStreamPublisher) PublishToQueue(ctx context.Context, queue string, payload []byte) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: queue,
		Values: map[string]any{
			"data":      string(payload),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}

// Close is a no-op; the underlying client is owned by the caller.
func (p *RedisStreamPublisher) Close() {}
