//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/portal/internal/auth/domain"
	"github.com/allisson/portal/internal/redis"
)

// getTestRedisURL returns the redis URL for integration tests.
func getTestRedisURL() string {
	if url := os.Getenv("TEST_REDIS_URL"); url != "" {
		return url
	}
	return "redis://localhost:6379/1"
}

func setupRedis(t *testing.T) *goredis.Client {
	t.Helper()

	client, err := redis.Connect(getTestRedisURL())
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}

func TestRedisSessionRepository_SetAndGet(t *testing.T) {
	repo := NewRedisSessionRepository(setupRedis(t))
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())

	require.NoError(t, repo.Set(ctx, "session-1", userID, time.Hour))

	got, err := repo.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestRedisSessionRepository_Get_Unknown(t *testing.T) {
	repo := NewRedisSessionRepository(setupRedis(t))

	got, err := repo.Get(context.Background(), "unknown")
	assert.Equal(t, uuid.Nil, got)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisSessionRepository_Expiration(t *testing.T) {
	repo := NewRedisSessionRepository(setupRedis(t))
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())

	require.NoError(t, repo.Set(ctx, "session-1", userID, 100*time.Millisecond))

	time.Sleep(200 * time.Millisecond)

	got, err := repo.Get(ctx, "session-1")
	assert.Equal(t, uuid.Nil, got)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisSessionRepository_Touch(t *testing.T) {
	repo := NewRedisSessionRepository(setupRedis(t))
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())

	require.NoError(t, repo.Set(ctx, "session-1", userID, 200*time.Millisecond))
	require.NoError(t, repo.Touch(ctx, "session-1", time.Hour))

	time.Sleep(300 * time.Millisecond)

	// Sliding expiration kept the session alive past its original ttl
	got, err := repo.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestRedisSessionRepository_Delete(t *testing.T) {
	repo := NewRedisSessionRepository(setupRedis(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "session-1", uuid.Must(uuid.NewV7()), time.Hour))
	require.NoError(t, repo.Delete(ctx, "session-1"))

	_, err := repo.Get(ctx, "session-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Deleting an unknown session is not an error
	assert.NoError(t, repo.Delete(ctx, "unknown"))
}
