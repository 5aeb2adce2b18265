package domain

import (
	"time"

	userdomain "github.com/allisson/portal/internal/user/domain"
)

// LoginInput carries the credentials for a password login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput carries the credentials established by a successful login.
// The session id is set as a cookie for browser flows; the token pair serves
// API clients.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
	User         *userdomain.User
}

// RefreshOutput carries the token pair minted from a valid refresh token.
type RefreshOutput struct {
	AccessToken  string
	RefreshToken string
}

// CreateAPIKeyInput carries the parameters for issuing a new API key.
type CreateAPIKeyInput struct {
	Name      string
	ExpiresAt *time.Time
}

// CreateAPIKeyOutput carries a newly issued API key.
//
// Security Note: PlainKey is only returned once, at creation time. Only its
// hash is persisted; the plaintext cannot be recovered later.
type CreateAPIKeyOutput struct {
	APIKey   *APIKey
	PlainKey string
}
