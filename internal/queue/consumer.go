package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"forumfront/internal/model"
)

// Message is a session event read from the stream.
type Message struct {
	ID    string // Redis message ID, e.g. "1702000000000-0"
	Event model.SessionEvent
}

// Consumer reads the session stream. Every instance reads every entry,
// so there are no consumer groups or acks.
type Consumer interface {
	// Read returns entries after lastID, blocking up to block.
	// next is the id to pass on the following call; it advances past
	// malformed entries too.
	Read(ctx context.Context, lastID string, count int64, block time.Duration) (messages []Message, next string, err error)

	// Tail returns the id of the newest entry, or "0-0" for an empty stream.
	Tail(ctx context.Context) (string, error)
}

// RedisConsumer implements Consumer with XREAD.
type RedisConsumer struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

// NewConsumer creates a Consumer for the session stream.
func NewConsumer(client *redis.Client, logger *zap.Logger) *RedisConsumer {
	return &RedisConsumer{
		client: client,
		stream: StreamSession,
		logger: logger.Named("consumer"),
	}
}

// Read issues XREAD STREAMS stream lastID. Use "$" to start from new entries.
func (c *RedisConsumer) Read(ctx context.Context, lastID string, count int64, block time.Duration) ([]Message, string, error) {
	streams, err := c.client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{c.stream, lastID},
		Count:   count,
		Block:   block,
	}).Result()
	if err == redis.Nil {
		// Timeout - no new messages
		return nil, lastID, nil
	}
	if err != nil {
		return nil, lastID, fmt.Errorf("xread: %w", err)
	}

	next := lastID
	var messages []Message
	for _, s := range streams {
		for _, msg := range s.Messages {
			next = msg.ID
			event, err := ParseSessionEvent(msg.Values)
			if err != nil {
				c.logger.Warn("skipping malformed message", zap.String("msg_id", msg.ID), zap.Error(err))
				continue
			}
			messages = append(messages, Message{ID: msg.ID, Event: event})
		}
	}
	return messages, next, nil
}

// Tail issues XREVRANGE stream + - COUNT 1.
func (c *RedisConsumer) Tail(ctx context.Context) (string, error) {
	msgs, err := c.client.XRevRangeN(ctx, c.stream, "+", "-", 1).Result()
	if err != nil {
		return "", fmt.Errorf("xrevrange: %w", err)
	}
	if len(msgs) == 0 {
		return "0-0", nil
	}
	return msgs[0].ID, nil
}
