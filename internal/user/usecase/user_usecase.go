// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/portal/internal/database"
	apperrors "github.com/allisson/portal/internal/errors"
	"github.com/allisson/portal/internal/user/domain"
	appValidation "github.com/allisson/portal/internal/validation"
)

// CreateUserInput contains the input data for creating a user account.
type CreateUserInput struct {
	Name        string
	Email       string
	Password    string
	IsStaff     bool
	IsSuperuser bool
	Membership  *domain.MembershipTier
}

// UpdateUserInput contains the partial update data for a user account.
// Nil fields are left unchanged; ClearMembership removes the membership
// record.
type UpdateUserInput struct {
	Name            *string
	IsActive        *bool
	IsStaff         *bool
	IsSuperuser     *bool
	Membership      *domain.MembershipTier
	ClearMembership bool
}

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// UserRepository defines the persistence operations the use case needs.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// UseCase defines the interface for user business logic operations.
type UseCase interface {
	// Create registers a new user account with a hashed password.
	Create(ctx context.Context, input *CreateUserInput) (*domain.User, error)

	// Get retrieves a user by ID regardless of active status.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetActive retrieves an active user by ID. Deactivated accounts are
	// reported as ErrUserNotFound.
	GetActive(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// List retrieves users with pagination, newest first.
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)

	// Update applies a partial update to a user account.
	Update(ctx context.Context, id uuid.UUID, input *UpdateUserInput) (*domain.User, error)
}

// UserUseCase handles user-related business logic.
type UserUseCase struct {
	txManager      database.TxManager
	userRepo       UserRepository
	passwordHasher PasswordHasher
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(txManager database.TxManager, userRepo UserRepository, passwordHasher PasswordHasher) UseCase {
	return &UserUseCase{
		txManager:      txManager,
		userRepo:       userRepo,
		passwordHasher: passwordHasher,
	}
}

// validateCreateUserInput validates account creation input.
func (uc *UserUseCase) validateCreateUserInput(input *CreateUserInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	if input.Membership != nil && !input.Membership.IsValid() {
		return domain.ErrInvalidMembershipTier
	}
	return nil
}

// Create registers a new user account.
func (uc *UserUseCase) Create(ctx context.Context, input *CreateUserInput) (*domain.User, error) {
	if err := uc.validateCreateUserInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordHasher.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	user := &domain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(strings.ToLower(input.Email)),
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsStaff:      input.IsStaff,
		IsSuperuser:  input.IsSuperuser,
		Membership:   input.Membership,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Get retrieves a user by ID.
func (uc *UserUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// GetActive retrieves an active user by ID.
func (uc *UserUseCase) GetActive(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetActiveByID(ctx, id)
}

// List retrieves users with pagination.
func (uc *UserUseCase) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return uc.userRepo.List(ctx, offset, limit)
}

// Update applies a partial update to a user account.
func (uc *UserUseCase) Update(ctx context.Context, id uuid.UUID, input *UpdateUserInput) (*domain.User, error) {
	if input.Membership != nil && !input.Membership.IsValid() {
		return nil, domain.ErrInvalidMembershipTier
	}

	var user *domain.User

	// The read and write run in one transaction so concurrent updates
	// cannot interleave between them.
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = uc.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return apperrors.Wrap(apperrors.ErrInvalidInput, "name must not be blank")
			}
			user.Name = name
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
		}
		if input.IsStaff != nil {
			user.IsStaff = *input.IsStaff
		}
		if input.IsSuperuser != nil {
			user.IsSuperuser = *input.IsSuperuser
		}
		if input.Membership != nil {
			user.Membership = input.Membership
		}
		if input.ClearMembership {
			user.Membership = nil
		}

		return uc.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
