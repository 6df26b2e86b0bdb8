package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const processedEventPrefix = "events:processed:"

// IdempotencyStore records processed Kafka event ids in Redis so duplicates
// are skipped across every replica of the service.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates a new Redis-backed idempotency store.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		ttl:    ttl,
	}
}

// Contains reports whether the event id was already processed.
func (s *IdempotencyStore) Contains(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, processedEventPrefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists event %s: %w", eventID, err)
	}
	return n > 0, nil
}

// Add marks the event id as processed for the configured TTL.
func (s *IdempotencyStore) Add(ctx context.Context, eventID string) error {
	if err := s.client.Set(ctx, processedEventPrefix+eventID, 1, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set event %s: %w", eventID, err)
	}
	return nil
}
