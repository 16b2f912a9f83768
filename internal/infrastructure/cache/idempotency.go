package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ventureflow/backend/internal/domain/shared"
)

const idempotencyKeyPrefix = "vf:event:processed:"

// RedisIdempotencyStore shares processed event IDs across instances
type RedisIdempotencyStore struct {
	client *redis.Client
}

// NewRedisIdempotencyStore wraps an existing client
func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

// MarkProcessed sets the key with SETNX; false means another consumer got there first
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKeyPrefix+eventID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark event as processed: %w", err)
	}
	return ok, nil
}

// IsProcessed checks if an event has already been processed
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, idempotencyKeyPrefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check if event is processed: %w", err)
	}
	return n > 0, nil
}

// Close is a no-op; the client belongs to the caller
func (s *RedisIdempotencyStore) Close() error {
	return nil
}

// InMemoryIdempotencyStore is the single-instance fallback. Expired entries
// are dropped lazily on the next write.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewInMemoryIdempotencyStore creates an empty store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{entries: make(map[string]time.Time), now: time.Now}
}

// MarkProcessed returns true the first time eventID is seen within ttl
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, expiresAt := range s.entries {
		if !now.Before(expiresAt) {
			delete(s.entries, id)
		}
	}
	if _, seen := s.entries[eventID]; seen {
		return false, nil
	}
	s.entries[eventID] = now.Add(ttl)
	return true, nil
}

// IsProcessed checks if an event has already been processed
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiresAt, ok := s.entries[eventID]
	return ok && s.now().Before(expiresAt), nil
}

// Close releases nothing
func (s *InMemoryIdempotencyStore) Close() error {
	return nil
}

// Size returns the number of tracked events
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var (
	_ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
	_ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
)
