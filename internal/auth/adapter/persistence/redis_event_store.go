package persistence

import (
	"context"

	"notemate/internal/auth/domain/model"
	"notemate/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// sessionEventStream is the Redis Stream holding session lifecycle events.
const sessionEventStream = "notemate:session-events"

// RedisSessionEventStore publishes session lifecycle events to Redis Streams.
// It is an audit sink, not part of the credential protocol: callers treat
// publish failures as log-and-continue.
type RedisSessionEventStore struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisSessionEventStore creates a new Redis-backed session event store
func NewRedisSessionEventStore(client *redis.Client, log logger.Logger) *RedisSessionEventStore {
	return &RedisSessionEventStore{
		client: client,
		logger: log,
	}
}

// Publish appends a session lifecycle event to the stream.
func (r *RedisSessionEventStore) Publish(ctx context.Context, event model.SessionEvent) error {
	_, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: sessionEventStream,
		Values: map[string]interface{}{
			"id":        event.ID,
			"type":      string(event.Type),
			"userId":    event.UserID,
			"timestamp": event.Timestamp.UnixNano(),
		},
	}).Result()

	if err != nil {
		r.logger.WithFields(map[string]interface{}{
			"stream":    sessionEventStream,
			"eventType": string(event.Type),
			"userId":    event.UserID,
		}).Errorf("Failed to publish session event: %v", err)
		return err
	}

	r.logger.WithFields(map[string]interface{}{
		"stream":    sessionEventStream,
		"eventType": string(event.Type),
	}).Debug("Session event published")

	return nil
}

// HealthCheck verifies the Redis connection.
func (r *RedisSessionEventStore) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
