// Package usecase defines business logic interfaces for authentication and authorization operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/portal/internal/auth/domain"
	userDomain "github.com/allisson/portal/internal/user/domain"
)

// APIKeyRepository defines persistence operations for API keys.
// Implementations must support transaction-aware operations via context propagation.
type APIKeyRepository interface {
	// Create stores a new API key in the repository.
	Create(ctx context.Context, apiKey *authDomain.APIKey) error

	// GetByID retrieves an API key by ID. Returns ErrAPIKeyNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*authDomain.APIKey, error)

	// GetByKeyHash retrieves an API key by the hash of its plaintext.
	// Returns ErrAPIKeyNotFound if not found.
	GetByKeyHash(ctx context.Context, keyHash string) (*authDomain.APIKey, error)

	// ListByUser retrieves a user's API keys with pagination.
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*authDomain.APIKey, error)

	// Revoke soft-deletes the key, scoped to the owning user.
	// Returns ErrAPIKeyNotFound if the key doesn't exist or belongs to another user.
	Revoke(ctx context.Context, id, userID uuid.UUID) error

	// UpdateLastUsed records when the key last authenticated a request.
	UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error

	// CountExpired counts keys whose expiration passed before the given time.
	CountExpired(ctx context.Context, before time.Time) (int64, error)

	// DeleteExpired removes keys whose expiration passed before the given time,
	// returning the number of removed keys.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// UserRepository defines the user persistence operations the auth layer needs.
type UserRepository interface {
	// GetByEmail retrieves a user by email. Returns ErrUserNotFound if not found.
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)

	// GetActiveByID retrieves an active user by ID. Deactivated accounts are
	// reported as ErrUserNotFound.
	GetActiveByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)

	// SetEmailVerified marks the user's email as verified at the given time.
	SetEmailVerified(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error
}

// AuthUseCase defines the credential lifecycle operations: login, token
// refresh, logout, email verification, and per-request authentication for
// token and session credentials.
type AuthUseCase interface {
	// Login authenticates an email/password pair and establishes credentials:
	// an access/refresh token pair plus a server-side session.
	//
	// Security Note: returns ErrInvalidCredentials for unknown emails, wrong
	// passwords, and inactive accounts alike to prevent account enumeration.
	Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error)

	// Refresh mints a fresh token pair from a valid refresh token.
	// Access tokens presented here are rejected with ErrInvalidTokenType.
	Refresh(ctx context.Context, refreshToken string) (*authDomain.RefreshOutput, error)

	// Logout invalidates the session. Unknown sessions are not an error.
	Logout(ctx context.Context, sessionID string) error

	// RequestEmailVerification issues a verify_email token for the user's
	// current email address. The token is meant to be delivered out-of-band.
	RequestEmailVerification(ctx context.Context, userID uuid.UUID) (string, error)

	// ConfirmEmailVerification validates a verify_email token and marks the
	// user's email as verified. The token is rejected if the user's email
	// changed since the token was issued.
	ConfirmEmailVerification(ctx context.Context, token string) error

	// AuthenticateAccessToken resolves an access token to an active user.
	AuthenticateAccessToken(ctx context.Context, token string) (*userDomain.User, error)

	// AuthenticateSession resolves a session id to an active user, sliding
	// the session expiration.
	AuthenticateSession(ctx context.Context, sessionID string) (*userDomain.User, error)
}

// APIKeyUseCase defines the API key lifecycle and authentication operations.
type APIKeyUseCase interface {
	// Issue creates a new API key for the user. The plaintext is only
	// returned once; only its hash is stored.
	Issue(
		ctx context.Context,
		userID uuid.UUID,
		input *authDomain.CreateAPIKeyInput,
	) (*authDomain.CreateAPIKeyOutput, error)

	// List retrieves the user's API keys with pagination.
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*authDomain.APIKey, error)

	// Revoke soft-deletes one of the user's API keys.
	Revoke(ctx context.Context, id, userID uuid.UUID) error

	// Authenticate resolves a plaintext API key to an active user.
	// The key's last_used_at is updated best-effort in the background.
	Authenticate(ctx context.Context, plainKey string) (*userDomain.User, error)

	// CleanExpired removes keys that expired more than the given number of
	// days ago. With dryRun it only counts what would be removed.
	CleanExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}
