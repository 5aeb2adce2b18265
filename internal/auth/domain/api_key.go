package domain

import (
	"time"

	"github.com/google/uuid"
)

// APIKey represents a stored API key. The plaintext key is only available
// at creation time; only its SHA-256 hash is persisted. KeyPrefix keeps the
// first characters of the plaintext so users can recognize their keys in
// listings without exposing the secret.
type APIKey struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	KeyHash    string
	KeyPrefix  string
	IsActive   bool
	LastUsedAt *time.Time
	ExpiresAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsExpired reports whether the key has passed its expiration time.
// Keys without an expiration never expire.
func (k *APIKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt != nil && now.After(*k.ExpiresAt)
}

// IsValid reports whether the key can authenticate requests: it must be
// active (not revoked) and not expired.
func (k *APIKey) IsValid(now time.Time) bool {
	return k.IsActive && !k.IsExpired(now)
}
