// Package domain contains the core business entities for user management.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/portal/internal/errors"
)

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrUserInactive indicates the user account has been deactivated.
	ErrUserInactive = errors.Wrap(errors.ErrUnauthorized, "user is inactive")

	// ErrInvalidMembershipTier indicates the membership tier is not a known level.
	ErrInvalidMembershipTier = errors.Wrap(errors.ErrInvalidInput, "invalid membership tier")
)

// MembershipTier identifies the paid membership level of a user.
type MembershipTier string

// Membership tiers, from lowest to highest.
const (
	MembershipBasic        MembershipTier = "basic"
	MembershipSupporting   MembershipTier = "supporting"
	MembershipSponsor      MembershipTier = "sponsor"
	MembershipManaging     MembershipTier = "managing"
	MembershipContributing MembershipTier = "contributing"
	MembershipFellow       MembershipTier = "fellow"
)

// tierRanks defines the total order over membership tiers.
var tierRanks = map[MembershipTier]int{
	MembershipBasic:        0,
	MembershipSupporting:   1,
	MembershipSponsor:      2,
	MembershipManaging:     3,
	MembershipContributing: 4,
	MembershipFellow:       5,
}

// IsValid reports whether the tier is one of the known membership levels.
func (m MembershipTier) IsValid() bool {
	_, ok := tierRanks[m]
	return ok
}

// Rank returns the position of the tier in the membership order.
// Unknown tiers rank below basic.
func (m MembershipTier) Rank() int {
	rank, ok := tierRanks[m]
	if !ok {
		return -1
	}
	return rank
}

// IsHigherThanBasic reports whether the tier is above the entry level.
func (m MembershipTier) IsHigherThanBasic() bool {
	return m.Rank() > tierRanks[MembershipBasic]
}

// User represents an account on the site.
//
// Membership is nil for users without a membership record; guards treat
// a nil membership and a basic membership differently.
type User struct {
	ID              uuid.UUID
	Name            string
	Email           string
	PasswordHash    string
	IsActive        bool
	IsStaff         bool
	IsSuperuser     bool
	Membership      *MembershipTier
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasMembership reports whether the user has an associated membership record.
func (u *User) HasMembership() bool {
	return u.Membership != nil
}

// HasHigherMembership reports whether the user holds a membership above basic.
func (u *User) HasHigherMembership() bool {
	return u.Membership != nil && u.Membership.IsHigherThanBasic()
}

// IsEmailVerified reports whether the user has confirmed their email address.
func (u *User) IsEmailVerified() bool {
	return u.EmailVerifiedAt != nil
}
