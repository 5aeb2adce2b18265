package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/portal/internal/auth/domain"
	authService "github.com/allisson/portal/internal/auth/service"
	userDomain "github.com/allisson/portal/internal/user/domain"

	apperrors "github.com/allisson/portal/internal/errors"
)

// apiKeyUseCase implements APIKeyUseCase for API key lifecycle and authentication.
type apiKeyUseCase struct {
	apiKeyRepo    APIKeyRepository
	userRepo      UserRepository
	apiKeyService authService.APIKeyService
	logger        *slog.Logger
}

// NewAPIKeyUseCase creates a new APIKeyUseCase with the provided dependencies.
func NewAPIKeyUseCase(
	apiKeyRepo APIKeyRepository,
	userRepo UserRepository,
	apiKeyService authService.APIKeyService,
	logger *slog.Logger,
) APIKeyUseCase {
	return &apiKeyUseCase{
		apiKeyRepo:    apiKeyRepo,
		userRepo:      userRepo,
		apiKeyService: apiKeyService,
		logger:        logger,
	}
}

// Issue creates a new API key for the user.
//
// Security Note: the plaintext key is only present in the returned output.
// Only its SHA-256 hash and a short display prefix are persisted.
func (a *apiKeyUseCase) Issue(
	ctx context.Context,
	userID uuid.UUID,
	input *authDomain.CreateAPIKeyInput,
) (*authDomain.CreateAPIKeyOutput, error) {
	if input.Name == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "api key name is required")
	}
	if input.ExpiresAt != nil && input.ExpiresAt.Before(time.Now().UTC()) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "api key expiration must be in the future")
	}

	plainKey, keyHash, keyPrefix, err := a.apiKeyService.GenerateKey()
	if err != nil {
		return nil, err
	}

	apiKey := &authDomain.APIKey{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		Name:      input.Name,
		KeyHash:   keyHash,
		KeyPrefix: keyPrefix,
		IsActive:  true,
		ExpiresAt: input.ExpiresAt,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := a.apiKeyRepo.Create(ctx, apiKey); err != nil {
		return nil, err
	}

	return &authDomain.CreateAPIKeyOutput{
		APIKey:   apiKey,
		PlainKey: plainKey,
	}, nil
}

// List retrieves the user's API keys with pagination.
func (a *apiKeyUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*authDomain.APIKey, error) {
	return a.apiKeyRepo.ListByUser(ctx, userID, offset, limit)
}

// Revoke soft-deletes one of the user's API keys.
func (a *apiKeyUseCase) Revoke(ctx context.Context, id, userID uuid.UUID) error {
	return a.apiKeyRepo.Revoke(ctx, id, userID)
}

// Authenticate resolves a plaintext API key to an active user.
//
// Security Notes:
//   - Returns ErrAPIKeyInvalid for unknown, revoked, and expired keys alike
//     so callers cannot probe which keys exist
//   - The last_used_at write is fire-and-forget: it must never slow down or
//     fail the request it is recording
func (a *apiKeyUseCase) Authenticate(ctx context.Context, plainKey string) (*userDomain.User, error) {
	keyHash := a.apiKeyService.HashKey(plainKey)

	apiKey, err := a.apiKeyRepo.GetByKeyHash(ctx, keyHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrAPIKeyNotFound) {
			return nil, authDomain.ErrAPIKeyInvalid
		}
		return nil, err
	}

	if !apiKey.IsValid(time.Now().UTC()) {
		return nil, authDomain.ErrAPIKeyInvalid
	}

	user, err := a.userRepo.GetActiveByID(ctx, apiKey.UserID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrAPIKeyInvalid
		}
		return nil, err
	}

	// Record usage in the background, detached from the request lifetime
	go a.recordLastUsed(context.WithoutCancel(ctx), apiKey.ID)

	return user, nil
}

// recordLastUsed updates the key's last_used_at, logging failures instead of
// surfacing them.
func (a *apiKeyUseCase) recordLastUsed(ctx context.Context, id uuid.UUID) {
	if err := a.apiKeyRepo.UpdateLastUsed(ctx, id, time.Now().UTC()); err != nil {
		a.logger.Warn("failed to record api key usage",
			slog.String("api_key_id", id.String()),
			slog.Any("error", err),
		)
	}
}

// CleanExpired removes keys that expired more than the given number of days ago.
func (a *apiKeyUseCase) CleanExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must not be negative")
	}

	before := time.Now().UTC().AddDate(0, 0, -days)

	if dryRun {
		return a.apiKeyRepo.CountExpired(ctx, before)
	}
	return a.apiKeyRepo.DeleteExpired(ctx, before)
}
