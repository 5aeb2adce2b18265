package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/portal/internal/auth/domain"
)

// memorySession is a stored session with its expiration time.
type memorySession struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// MemorySessionRepository is an in-memory SessionRepository.
// Intended for unit tests and local development without redis.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

// NewMemorySessionRepository creates a new MemorySessionRepository
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]memorySession),
	}
}

// Set stores the session with the given time-to-live.
func (r *MemorySessionRepository) Set(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = memorySession{
		userID:    userID,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Get returns the user bound to the session.
func (r *MemorySessionRepository) Get(ctx context.Context, sessionID string) (uuid.UUID, error) {
	r.mu.RLock()
	session, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if !ok || time.Now().After(session.expiresAt) {
		return uuid.Nil, domain.ErrSessionNotFound
	}
	return session.userID, nil
}

// Touch resets the session expiration to the given time-to-live.
func (r *MemorySessionRepository) Touch(ctx context.Context, sessionID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	session.expiresAt = time.Now().Add(ttl)
	r.sessions[sessionID] = session
	return nil
}

// Delete removes the session.
func (r *MemorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}
