package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/portal/internal/auth/domain"
	"github.com/allisson/portal/internal/metrics"
	userDomain "github.com/allisson/portal/internal/user/domain"
)

// operationStatus maps an error to a metrics status label.
func operationStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the counter and duration for one auth operation.
func (a *authUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := operationStatus(err)
	a.metrics.RecordOperation(ctx, "auth", operation, status)
	a.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// Login records metrics for login operations.
func (a *authUseCaseWithMetrics) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	start := time.Now()
	output, err := a.next.Login(ctx, input)
	a.record(ctx, "login", start, err)
	return output, err
}

// Refresh records metrics for token refresh operations.
func (a *authUseCaseWithMetrics) Refresh(
	ctx context.Context,
	refreshToken string,
) (*authDomain.RefreshOutput, error) {
	start := time.Now()
	output, err := a.next.Refresh(ctx, refreshToken)
	a.record(ctx, "refresh", start, err)
	return output, err
}

// Logout records metrics for logout operations.
func (a *authUseCaseWithMetrics) Logout(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := a.next.Logout(ctx, sessionID)
	a.record(ctx, "logout", start, err)
	return err
}

// RequestEmailVerification records metrics for verification token issuance.
func (a *authUseCaseWithMetrics) RequestEmailVerification(
	ctx context.Context,
	userID uuid.UUID,
) (string, error) {
	start := time.Now()
	token, err := a.next.RequestEmailVerification(ctx, userID)
	a.record(ctx, "request_email_verification", start, err)
	return token, err
}

// ConfirmEmailVerification records metrics for verification confirmations.
func (a *authUseCaseWithMetrics) ConfirmEmailVerification(ctx context.Context, token string) error {
	start := time.Now()
	err := a.next.ConfirmEmailVerification(ctx, token)
	a.record(ctx, "confirm_email_verification", start, err)
	return err
}

// AuthenticateAccessToken records metrics for access token resolution.
func (a *authUseCaseWithMetrics) AuthenticateAccessToken(
	ctx context.Context,
	token string,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := a.next.AuthenticateAccessToken(ctx, token)
	a.record(ctx, "authenticate_access_token", start, err)
	return user, err
}

// AuthenticateSession records metrics for session resolution.
func (a *authUseCaseWithMetrics) AuthenticateSession(
	ctx context.Context,
	sessionID string,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := a.next.AuthenticateSession(ctx, sessionID)
	a.record(ctx, "authenticate_session", start, err)
	return user, err
}

// apiKeyUseCaseWithMetrics decorates APIKeyUseCase with metrics instrumentation.
type apiKeyUseCaseWithMetrics struct {
	next    APIKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewAPIKeyUseCaseWithMetrics wraps an APIKeyUseCase with metrics recording.
func NewAPIKeyUseCaseWithMetrics(useCase APIKeyUseCase, m metrics.BusinessMetrics) APIKeyUseCase {
	return &apiKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the counter and duration for one api key operation.
func (a *apiKeyUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := operationStatus(err)
	a.metrics.RecordOperation(ctx, "api_key", operation, status)
	a.metrics.RecordDuration(ctx, "api_key", operation, time.Since(start), status)
}

// Issue records metrics for API key issuance operations.
func (a *apiKeyUseCaseWithMetrics) Issue(
	ctx context.Context,
	userID uuid.UUID,
	input *authDomain.CreateAPIKeyInput,
) (*authDomain.CreateAPIKeyOutput, error) {
	start := time.Now()
	output, err := a.next.Issue(ctx, userID, input)
	a.record(ctx, "issue", start, err)
	return output, err
}

// List records metrics for API key list operations.
func (a *apiKeyUseCaseWithMetrics) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*authDomain.APIKey, error) {
	start := time.Now()
	apiKeys, err := a.next.List(ctx, userID, offset, limit)
	a.record(ctx, "list", start, err)
	return apiKeys, err
}

// Revoke records metrics for API key revocation operations.
func (a *apiKeyUseCaseWithMetrics) Revoke(ctx context.Context, id, userID uuid.UUID) error {
	start := time.Now()
	err := a.next.Revoke(ctx, id, userID)
	a.record(ctx, "revoke", start, err)
	return err
}

// Authenticate records metrics for API key authentication operations.
func (a *apiKeyUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	plainKey string,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := a.next.Authenticate(ctx, plainKey)
	a.record(ctx, "authenticate", start, err)
	return user, err
}

// CleanExpired records metrics for expired key cleanup operations.
func (a *apiKeyUseCaseWithMetrics) CleanExpired(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	start := time.Now()
	count, err := a.next.CleanExpired(ctx, days, dryRun)
	a.record(ctx, "clean_expired", start, err)
	return count, err
}
