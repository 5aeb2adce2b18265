// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/portal/internal/auth/domain"
	authService "github.com/allisson/portal/internal/auth/service"
	"github.com/allisson/portal/internal/config"
	userDomain "github.com/allisson/portal/internal/user/domain"
)

// authUseCase implements AuthUseCase for password, token, and session credentials.
type authUseCase struct {
	config          *config.Config
	userRepo        UserRepository
	tokenService    authService.TokenService
	passwordService authService.PasswordService
	sessionService  authService.SessionService
}

// NewAuthUseCase creates a new AuthUseCase with the provided dependencies.
func NewAuthUseCase(
	config *config.Config,
	userRepo UserRepository,
	tokenService authService.TokenService,
	passwordService authService.PasswordService,
	sessionService authService.SessionService,
) AuthUseCase {
	return &authUseCase{
		config:          config,
		userRepo:        userRepo,
		tokenService:    tokenService,
		passwordService: passwordService,
		sessionService:  sessionService,
	}
}

// Login authenticates an email/password pair and establishes credentials.
//
// Security Notes:
//   - Returns ErrInvalidCredentials for unknown emails, wrong passwords, and
//     inactive accounts alike to prevent account enumeration
//   - The refresh token and session are independent: browser flows rely on
//     the session cookie, API clients on the token pair
func (a *authUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	// Get the user by email
	user, err := a.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		// If user not found, return generic error to prevent enumeration
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	// Inactive accounts cannot log in
	if !user.IsActive {
		return nil, authDomain.ErrInvalidCredentials
	}

	// Verify the password
	if !a.passwordService.ComparePassword(input.Password, user.PasswordHash) {
		return nil, authDomain.ErrInvalidCredentials
	}

	// Mint the token pair
	accessToken, err := a.tokenService.Issue(user.ID, authDomain.TokenTypeAccess, a.config.AccessTokenExpiration)
	if err != nil {
		return nil, err
	}
	refreshToken, err := a.tokenService.Issue(user.ID, authDomain.TokenTypeRefresh, a.config.RefreshTokenExpiration)
	if err != nil {
		return nil, err
	}

	// Establish the server-side session
	sessionID, err := a.sessionService.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &authDomain.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
		User:         user,
	}, nil
}

// Refresh mints a fresh token pair from a valid refresh token.
func (a *authUseCase) Refresh(ctx context.Context, refreshToken string) (*authDomain.RefreshOutput, error) {
	claims, err := a.tokenService.Decode(refreshToken)
	if err != nil {
		return nil, err
	}

	// An access token presented as a refresh token is a type confusion
	if err := a.tokenService.VerifyType(claims, authDomain.TokenTypeRefresh); err != nil {
		return nil, err
	}

	subject, err := a.tokenService.Subject(claims)
	if err != nil {
		return nil, err
	}

	// Re-check the account is still active before extending its credentials
	user, err := a.userRepo.GetActiveByID(ctx, subject)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}

	accessToken, err := a.tokenService.Issue(user.ID, authDomain.TokenTypeAccess, a.config.AccessTokenExpiration)
	if err != nil {
		return nil, err
	}
	newRefreshToken, err := a.tokenService.Issue(user.ID, authDomain.TokenTypeRefresh, a.config.RefreshTokenExpiration)
	if err != nil {
		return nil, err
	}

	return &authDomain.RefreshOutput{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout invalidates the session.
func (a *authUseCase) Logout(ctx context.Context, sessionID string) error {
	return a.sessionService.Invalidate(ctx, sessionID)
}

// RequestEmailVerification issues a verify_email token for the user's current email.
func (a *authUseCase) RequestEmailVerification(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := a.userRepo.GetActiveByID(ctx, userID)
	if err != nil {
		return "", err
	}

	return a.tokenService.IssueEmailVerification(user.ID, user.Email, a.config.EmailVerificationExpiration)
}

// ConfirmEmailVerification validates a verify_email token and marks the
// user's email as verified.
func (a *authUseCase) ConfirmEmailVerification(ctx context.Context, token string) error {
	claims, err := a.tokenService.Decode(token)
	if err != nil {
		return err
	}

	if err := a.tokenService.VerifyType(claims, authDomain.TokenTypeVerifyEmail); err != nil {
		return err
	}

	subject, err := a.tokenService.Subject(claims)
	if err != nil {
		return err
	}

	user, err := a.userRepo.GetActiveByID(ctx, subject)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return authDomain.ErrInvalidToken
		}
		return err
	}

	// The token only verifies the address it was issued for
	if claims.Email != user.Email {
		return authDomain.ErrInvalidToken
	}

	return a.userRepo.SetEmailVerified(ctx, user.ID, time.Now().UTC())
}

// AuthenticateAccessToken resolves an access token to an active user.
func (a *authUseCase) AuthenticateAccessToken(ctx context.Context, token string) (*userDomain.User, error) {
	claims, err := a.tokenService.Decode(token)
	if err != nil {
		return nil, err
	}

	if err := a.tokenService.VerifyType(claims, authDomain.TokenTypeAccess); err != nil {
		return nil, err
	}

	subject, err := a.tokenService.Subject(claims)
	if err != nil {
		return nil, err
	}

	// A valid token for a deactivated account authenticates nothing
	user, err := a.userRepo.GetActiveByID(ctx, subject)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}

// AuthenticateSession resolves a session id to an active user.
func (a *authUseCase) AuthenticateSession(ctx context.Context, sessionID string) (*userDomain.User, error) {
	userID, err := a.sessionService.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := a.userRepo.GetActiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrSessionNotFound
		}
		return nil, err
	}

	return user, nil
}
