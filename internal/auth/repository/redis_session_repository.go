package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/allisson/portal/internal/auth/domain"

	apperrors "github.com/allisson/portal/internal/errors"
)

// sessionKeyPrefix namespaces session keys in redis.
const sessionKeyPrefix = "session:"

// RedisSessionRepository stores sessions in redis with server-side expiration.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a new RedisSessionRepository
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: client,
	}
}

// Set stores the session with the given time-to-live.
func (r *RedisSessionRepository) Set(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error {
	err := r.client.Set(ctx, sessionKeyPrefix+sessionID, userID.String(), ttl).Err()
	if err != nil {
		return apperrors.Wrap(err, "failed to store session")
	}
	return nil
}

// Get returns the user bound to the session.
func (r *RedisSessionRepository) Get(ctx context.Context, sessionID string) (uuid.UUID, error) {
	value, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, domain.ErrSessionNotFound
		}
		return uuid.Nil, apperrors.Wrap(err, "failed to get session")
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(err, "failed to parse session user id")
	}

	return userID, nil
}

// Touch resets the session expiration to the given time-to-live.
func (r *RedisSessionRepository) Touch(ctx context.Context, sessionID string, ttl time.Duration) error {
	err := r.client.Expire(ctx, sessionKeyPrefix+sessionID, ttl).Err()
	if err != nil {
		return apperrors.Wrap(err, "failed to touch session")
	}
	return nil
}

// Delete removes the session.
func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	err := r.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
	if err != nil {
		return apperrors.Wrap(err, "failed to delete session")
	}
	return nil
}
