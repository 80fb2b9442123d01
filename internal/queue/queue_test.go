package queue

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"forumfront/internal/model"
)

func TestParseSessionEvent_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
	}{
		{"missing data", map[string]interface{}{"type": "signed_out"}},
		{"not json", map[string]interface{}{"data": "{nope"}},
		{"unknown type", map[string]interface{}{"data": `{"type":"token_refreshed"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSessionEvent(tt.values)
			assert.Error(t, err)
		})
	}
}

func TestToValues_CarriesType(t *testing.T) {
	event := model.SessionEvent{Type: model.SessionSignedOut, UserID: uuid.New(), SessionID: "s1"}

	values, err := ToValues(event)
	require.NoError(t, err)
	assert.Equal(t, "signed_out", values["type"])

	parsed, err := ParseSessionEvent(values)
	require.NoError(t, err)
	assert.Equal(t, event, parsed)
}

func setupTestRedis(t *testing.T) *redis.Client {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}
	opts.DB = 1
	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available, skipping test: %v", err)
	}
	client.Del(ctx, StreamSession)

	t.Cleanup(func() {
		client.Del(context.Background(), StreamSession)
		client.Close()
	})
	return client
}

func TestStream_PublishThenRead(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	pub := NewPublisher(client, zap.NewNop())
	con := NewConsumer(client, zap.NewNop())

	// A malformed entry ahead of the real one must be skipped but advance the cursor.
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamSession,
		Values: map[string]interface{}{"data": "garbage"},
	}).Err())

	event := model.SessionEvent{Type: model.SessionSignedOut, UserID: uuid.New(), SessionID: "s1", Timestamp: 1}
	require.NoError(t, pub.PublishSessionEvent(ctx, event))

	msgs, next, err := con.Read(ctx, "0", 10, 100*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, event, msgs[0].Event)
	assert.Equal(t, msgs[0].ID, next)

	msgs, again, err := con.Read(ctx, next, 10, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Equal(t, next, again)
}

func TestConsumer_TailPinsCursor(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	pub := NewPublisher(client, zap.NewNop())
	con := NewConsumer(client, zap.NewNop())

	tail, err := con.Tail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0-0", tail)

	old := model.SessionEvent{Type: model.SessionSignedIn, UserID: uuid.New(), SessionID: "old", Timestamp: 1}
	require.NoError(t, pub.PublishSessionEvent(ctx, old))
	tail, err = con.Tail(ctx)
	require.NoError(t, err)

	// Published after the tail was taken but before any read is issued.
	fresh := model.SessionEvent{Type: model.SessionSignedOut, UserID: uuid.New(), SessionID: "fresh", Timestamp: 2}
	require.NoError(t, pub.PublishSessionEvent(ctx, fresh))

	msgs, _, err := con.Read(ctx, tail, 10, 100*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, fresh, msgs[0].Event)
}
