package cache

import (
	"github.com/redis/go-redis/v9"
	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NewIdempotencyStore returns a Redis store when client is set and the
// in-memory fallback otherwise
func NewIdempotencyStore(client *redis.Client, logger *zap.Logger) shared.IdempotencyStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client != nil {
		logger.Info("Using Redis idempotency store")
		return NewRedisIdempotencyStore(client)
	}
	logger.Warn("Redis disabled, using in-memory idempotency store; " +
		"events may be handled twice when several instances run")
	return NewInMemoryIdempotencyStore()
}
