package dto

import (
	"time"

	"github.com/allisson/portal/internal/user/domain"
)

// UserResponse represents a user in API responses (excludes the password hash).
type UserResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	IsActive        bool       `json:"is_active"`
	IsStaff         bool       `json:"is_staff"`
	IsSuperuser     bool       `json:"is_superuser"`
	Membership      *string    `json:"membership,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// MapUserToResponse converts a domain user to an API response.
// This enforces the boundary between internal domain models and external API contracts.
func MapUserToResponse(user *domain.User) UserResponse {
	var membership *string
	if user.Membership != nil {
		value := string(*user.Membership)
		membership = &value
	}

	return UserResponse{
		ID:              user.ID.String(),
		Name:            user.Name,
		Email:           user.Email,
		IsActive:        user.IsActive,
		IsStaff:         user.IsStaff,
		IsSuperuser:     user.IsSuperuser,
		Membership:      membership,
		EmailVerifiedAt: user.EmailVerifiedAt,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

// ListUsersResponse represents a paginated list of users in API responses.
type ListUsersResponse struct {
	Data []UserResponse `json:"data"`
}

// MapUsersToListResponse converts a slice of domain users to a list API response.
func MapUsersToListResponse(users []*domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		userResponses = append(userResponses, MapUserToResponse(user))
	}
	return ListUsersResponse{
		Data: userResponses,
	}
}
