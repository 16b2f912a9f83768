package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()
	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	first, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	processed, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, processed)

	clock = clock.Add(2 * time.Minute)
	processed, err = store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, processed)

	fresh, err := store.MarkProcessed(ctx, "evt-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, 1, store.Size())
	assert.NoError(t, store.Close())
}

func TestNewIdempotencyStore_Fallback(t *testing.T) {
	store := NewIdempotencyStore(nil, zap.NewNop())
	assert.IsType(t, &InMemoryIdempotencyStore{}, store)
}

func TestRedisIdempotencyStore(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	defer client.Close()
	store := NewIdempotencyStore(client, nil)

	first, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)
	again, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)
	processed, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, processed)
}
