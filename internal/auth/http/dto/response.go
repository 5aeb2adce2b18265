package dto

import (
	"time"

	authDomain "github.com/allisson/portal/internal/auth/domain"
	userDomain "github.com/allisson/portal/internal/user/domain"
)

// TokenPairResponse contains a freshly issued access and refresh token pair.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse contains the result of a successful login.
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// UserResponse represents the authenticated user in auth API responses
// (excludes the password hash).
type UserResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	IsStaff         bool       `json:"is_staff"`
	IsSuperuser     bool       `json:"is_superuser"`
	Membership      *string    `json:"membership,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *userDomain.User) UserResponse {
	var membership *string
	if user.Membership != nil {
		value := string(*user.Membership)
		membership = &value
	}

	return UserResponse{
		ID:              user.ID.String(),
		Name:            user.Name,
		Email:           user.Email,
		IsStaff:         user.IsStaff,
		IsSuperuser:     user.IsSuperuser,
		Membership:      membership,
		EmailVerifiedAt: user.EmailVerifiedAt,
		CreatedAt:       user.CreatedAt,
	}
}

// APIKeyResponse represents an API key in API responses (excludes the hash,
// only the display prefix identifies the key material).
type APIKeyResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	KeyPrefix  string     `json:"key_prefix"`
	IsActive   bool       `json:"is_active"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// MapAPIKeyToResponse converts a domain API key to an API response.
func MapAPIKeyToResponse(apiKey *authDomain.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:         apiKey.ID.String(),
		Name:       apiKey.Name,
		KeyPrefix:  apiKey.KeyPrefix,
		IsActive:   apiKey.IsActive,
		LastUsedAt: apiKey.LastUsedAt,
		ExpiresAt:  apiKey.ExpiresAt,
		CreatedAt:  apiKey.CreatedAt,
	}
}

// CreateAPIKeyResponse contains the result of issuing a new API key.
// SECURITY: The plaintext key is only returned once and must be saved securely.
type CreateAPIKeyResponse struct {
	APIKey APIKeyResponse `json:"api_key"`
	Key    string         `json:"key"` //nolint:gosec // returned once on creation
}

// ListAPIKeysResponse represents a paginated list of API keys in API responses.
type ListAPIKeysResponse struct {
	Data []APIKeyResponse `json:"data"`
}

// MapAPIKeysToListResponse converts a slice of domain API keys to a list API response.
func MapAPIKeysToListResponse(apiKeys []*authDomain.APIKey) ListAPIKeysResponse {
	apiKeyResponses := make([]APIKeyResponse, 0, len(apiKeys))
	for _, apiKey := range apiKeys {
		apiKeyResponses = append(apiKeyResponses, MapAPIKeyToResponse(apiKey))
	}
	return ListAPIKeysResponse{
		Data: apiKeyResponses,
	}
}

// VerificationTokenResponse contains an issued email verification token.
// In production this would be delivered by email; the API returns it so
// clients without a mail pipeline can complete the flow.
type VerificationTokenResponse struct {
	Token string `json:"token"`
}
