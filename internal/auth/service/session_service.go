package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/portal/internal/errors"
)

// SessionStore is the persistence contract sessionService relies on.
// Satisfied by repository.RedisSessionRepository and
// repository.MemorySessionRepository.
type SessionStore interface {
	Set(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (uuid.UUID, error)
	Touch(ctx context.Context, sessionID string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// sessionService implements SessionService with opaque random session ids.
//
// Security Notes:
//   - Session ids are 32 bytes of cryptographically secure randomness and
//     carry no information; the user binding lives only in the store.
//   - Sessions use a sliding expiration: every successful Resolve resets
//     the time-to-live.
type sessionService struct {
	store SessionStore
	ttl   time.Duration
}

// NewSessionService creates a new SessionService backed by the given store.
func NewSessionService(store SessionStore, ttl time.Duration) SessionService {
	return &sessionService{
		store: store,
		ttl:   ttl,
	}
}

// Create generates a new opaque session id bound to the user.
func (s *sessionService) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	// Generate 32 random bytes (256 bits)
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate session id")
	}

	sessionID := base64.URLEncoding.EncodeToString(randomBytes)

	if err := s.store.Set(ctx, sessionID, userID, s.ttl); err != nil {
		return "", err
	}

	return sessionID, nil
}

// Resolve returns the user bound to the session and slides its expiration.
func (s *sessionService) Resolve(ctx context.Context, sessionID string) (uuid.UUID, error) {
	userID, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return uuid.Nil, err
	}

	// Sliding expiration: a failed touch does not invalidate the resolution
	_ = s.store.Touch(ctx, sessionID, s.ttl)

	return userID, nil
}

// Invalidate removes the session.
func (s *sessionService) Invalidate(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}
