// Package repository provides data persistence implementations for authentication entities.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionRepository stores the binding between opaque session ids and users.
// Entries expire server-side; Touch resets the expiration for sliding TTLs.
type SessionRepository interface {
	// Set stores the session with the given time-to-live.
	Set(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error

	// Get returns the user bound to the session.
	// Returns domain.ErrSessionNotFound for unknown or expired sessions.
	Get(ctx context.Context, sessionID string) (uuid.UUID, error)

	// Touch resets the session expiration to the given time-to-live.
	Touch(ctx context.Context, sessionID string, ttl time.Duration) error

	// Delete removes the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error
}
