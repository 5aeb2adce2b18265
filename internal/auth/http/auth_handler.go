package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/portal/internal/auth/domain"
	"github.com/allisson/portal/internal/auth/http/dto"
	authUseCase "github.com/allisson/portal/internal/auth/usecase"
	"github.com/allisson/portal/internal/config"
	"github.com/allisson/portal/internal/httputil"
	customValidation "github.com/allisson/portal/internal/validation"
)

// AuthHandler handles HTTP requests for login, token and session lifecycle
// operations.
type AuthHandler struct {
	authUseCase authUseCase.AuthUseCase
	config      *config.Config
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
func NewAuthHandler(
	authUseCase authUseCase.AuthUseCase,
	cfg *config.Config,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		config:      cfg,
		logger:      logger,
	}
}

// LoginHandler authenticates an email/password pair.
// POST /v1/auth/login - No authentication required.
// Returns 200 OK with a token pair and sets the session and access token
// cookies for browser clients.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Call use case
	output, err := h.authUseCase.Login(c.Request.Context(), &authDomain.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Establish browser credentials
	h.setAuthCookies(c, output.SessionID, output.AccessToken)

	response := dto.LoginResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User:         dto.MapUserToResponse(output.User),
	}

	c.JSON(http.StatusOK, response)
}

// RefreshHandler mints a fresh token pair from a refresh token.
// POST /v1/auth/token/refresh - No authentication required (the refresh token is
// the credential).
// Returns 200 OK with the new token pair and rotates the access token cookie.
func (h *AuthHandler) RefreshHandler(c *gin.Context) {
	var req dto.RefreshRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Call use case
	output, err := h.authUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.setAccessTokenCookie(c, output.AccessToken)

	response := dto.TokenPairResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	}

	c.JSON(http.StatusOK, response)
}

// LogoutHandler invalidates the current session and clears auth cookies.
// POST /v1/auth/logout - No authentication required; logging out twice is
// not an error.
// Returns 204 No Content.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	// Invalidate the server-side session if the cookie is present
	if sessionID, err := c.Cookie(h.config.SessionCookieName); err == nil && sessionID != "" {
		if err := h.authUseCase.Logout(c.Request.Context(), sessionID); err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
	}

	h.clearAuthCookies(c)

	c.Status(http.StatusNoContent)
}

// RequestEmailVerificationHandler issues a verification token for the
// authenticated user's email address.
// POST /v1/auth/email-verification - Requires authentication.
// Returns 201 Created with the token. Delivery is expected to happen
// out-of-band; the response exists for clients without a mail pipeline.
func (h *AuthHandler) RequestEmailVerificationHandler(c *gin.Context) {
	auth, ok := GetAuthentication(c.Request.Context())
	if !ok || !auth.IsAuthenticated() {
		httputil.HandleUnauthenticatedGin(c)
		return
	}

	token, err := h.authUseCase.RequestEmailVerification(c.Request.Context(), auth.User.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.VerificationTokenResponse{Token: token})
}

// ConfirmEmailVerificationHandler validates a verification token and marks
// the email as verified.
// POST /v1/auth/email-verification/confirm - No authentication required (the token
// is the credential).
// Returns 204 No Content.
func (h *AuthHandler) ConfirmEmailVerificationHandler(c *gin.Context) {
	var req dto.ConfirmEmailVerificationRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.authUseCase.ConfirmEmailVerification(c.Request.Context(), req.Token); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// setAuthCookies establishes the session and access token cookies.
func (h *AuthHandler) setAuthCookies(c *gin.Context, sessionID, accessToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.config.SessionCookieName,
		sessionID,
		int(h.config.SessionTTL.Seconds()),
		"/",
		"",
		h.config.CookieSecure,
		true,
	)
	h.setAccessTokenCookie(c, accessToken)
}

// setAccessTokenCookie sets or rotates the access token cookie.
func (h *AuthHandler) setAccessTokenCookie(c *gin.Context, accessToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.config.AccessTokenCookieName,
		accessToken,
		int(h.config.AccessTokenExpiration.Seconds()),
		"/",
		"",
		h.config.CookieSecure,
		true,
	)
}

// clearAuthCookies expires both auth cookies.
func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.SessionCookieName, "", -1, "/", "", h.config.CookieSecure, true)
	c.SetCookie(h.config.AccessTokenCookieName, "", -1, "/", "", h.config.CookieSecure, true)
}
