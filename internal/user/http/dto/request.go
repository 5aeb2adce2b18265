// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/portal/internal/user/domain"
	"github.com/allisson/portal/internal/user/usecase"
	customValidation "github.com/allisson/portal/internal/validation"
)

// UpdateUserRequest contains the partial update parameters for a user
// account. Absent fields are left unchanged.
type UpdateUserRequest struct {
	Name            *string `json:"name,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
	IsStaff         *bool   `json:"is_staff,omitempty"`
	IsSuperuser     *bool   `json:"is_superuser,omitempty"`
	Membership      *string `json:"membership,omitempty"`
	ClearMembership bool    `json:"clear_membership,omitempty"`
}

// Validate checks if the update user request is valid.
func (r *UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// ToUpdateUserInput converts the request to a use case input.
func ToUpdateUserInput(req *UpdateUserRequest) *usecase.UpdateUserInput {
	input := &usecase.UpdateUserInput{
		Name:            req.Name,
		IsActive:        req.IsActive,
		IsStaff:         req.IsStaff,
		IsSuperuser:     req.IsSuperuser,
		ClearMembership: req.ClearMembership,
	}
	if req.Membership != nil {
		tier := domain.MembershipTier(*req.Membership)
		input.Membership = &tier
	}
	return input
}
