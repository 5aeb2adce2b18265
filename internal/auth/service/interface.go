// Package service provides technical services for authentication operations.
//
// This package implements reusable services for signed token issuance, API key
// generation and hashing, password hashing, and session identifier management
// using industry-standard cryptographic practices.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/portal/internal/auth/domain"
)

// TokenService defines operations for signed, self-contained tokens.
// Tokens are stateless: validity is determined entirely by signature and
// claim inspection, with no server-side revocation list.
type TokenService interface {
	// Issue creates a signed token for the given subject, stamped with the
	// token type and an expiration ttl from now.
	Issue(subject uuid.UUID, tokenType domain.TokenType, ttl time.Duration) (string, error)

	// IssueEmailVerification creates a verify_email token carrying the email
	// address the verification was requested for.
	IssueEmailVerification(subject uuid.UUID, email string, ttl time.Duration) (string, error)

	// Decode verifies the token signature and standard claims, returning the
	// parsed claims. All failures map to domain.ErrInvalidToken so callers
	// cannot distinguish malformed, expired, or tampered tokens.
	Decode(token string) (*domain.TokenClaims, error)

	// VerifyType checks that the claims were issued for the expected purpose.
	// Returns domain.ErrInvalidTokenType on mismatch.
	VerifyType(claims *domain.TokenClaims, expected domain.TokenType) error

	// Subject extracts the user id from the claims.
	// Returns domain.ErrInvalidSubject if the subject is not a valid UUID.
	Subject(claims *domain.TokenClaims) (uuid.UUID, error)
}

// APIKeyService defines operations for API key generation and hashing.
// Implementations must use cryptographically secure random generation and
// fast hashing suitable for per-request lookup (e.g., SHA-256).
type APIKeyService interface {
	// GenerateKey creates a new cryptographically secure random API key.
	// Returns the plain text key (to be shared with the user exactly once),
	// its hash (to be stored in the database), and a short display prefix
	// for identifying the key in listings.
	GenerateKey() (plainKey string, keyHash string, keyPrefix string, error error)

	// HashKey hashes a plain text key using SHA-256.
	// Used for key authentication by comparing hashes.
	HashKey(plainKey string) string
}

// PasswordService defines operations for password hashing and verification.
// Implementations must use an adaptive hashing algorithm (e.g., argon2id).
type PasswordService interface {
	// HashPassword hashes a plain text password for storage.
	HashPassword(plainPassword string) (hashedPassword string, error error)

	// ComparePassword compares a plain text password against a stored hash.
	// Returns true if they match. This is constant-time to prevent timing attacks.
	ComparePassword(plainPassword string, hashedPassword string) bool
}

// SessionService defines operations for opaque server-side sessions.
// Session ids carry no information; the user id lives in the session store.
type SessionService interface {
	// Create generates a new opaque session id bound to the user.
	Create(ctx context.Context, userID uuid.UUID) (sessionID string, error error)

	// Resolve returns the user id bound to the session and extends the
	// session lifetime (sliding expiration). Returns
	// domain.ErrSessionNotFound for unknown or expired sessions.
	Resolve(ctx context.Context, sessionID string) (uuid.UUID, error)

	// Invalidate removes the session. Invalidating an unknown session is not
	// an error.
	Invalidate(ctx context.Context, sessionID string) error
}
