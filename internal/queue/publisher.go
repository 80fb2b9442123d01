package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"forumfront/internal/model"
)

// RedisPublisher appends session events to a Redis stream so every
// instance's relay sees them.
type RedisPublisher struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

// NewPublisher creates a publisher for the session stream.
func NewPublisher(client *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		stream: StreamSession,
		logger: logger.Named("publisher"),
	}
}

// PublishSessionEvent adds the event with XADD, trimming the stream approximately.
func (p *RedisPublisher) PublishSessionEvent(ctx context.Context, event model.SessionEvent) error {
	startTime := time.Now()

	values, err := ToValues(event)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: StreamSessionMaxLen,
		Approx: true,
		Values: values,
	}).Result()
	if err != nil {
		p.logger.Error("publish failed",
			zap.String("stream", p.stream),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
		return fmt.Errorf("xadd to stream: %w", err)
	}

	p.logger.Debug("published",
		zap.String("stream", p.stream),
		zap.String("type", string(event.Type)),
		zap.String("msg_id", messageID),
		zap.Duration("duration", time.Since(startTime)),
	)
	return nil
}
