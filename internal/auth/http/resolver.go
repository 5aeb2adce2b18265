package http

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/portal/internal/auth/domain"
	authUseCase "github.com/allisson/portal/internal/auth/usecase"
	"github.com/allisson/portal/internal/config"
	userDomain "github.com/allisson/portal/internal/user/domain"
)

// apiKeyHeader carries API keys for programmatic clients.
const apiKeyHeader = "X-API-Key"

// CredentialSource extracts one kind of credential from a request and
// resolves it to a user. Resolve is only called when the source is present.
//
// Sources are consulted in a fixed order and the first present credential
// wins: a failing high-priority credential does not abort resolution, the
// resolver falls through to the next source.
type CredentialSource interface {
	// Name identifies the source in logs and in the resulting
	// authentication method.
	Name() authDomain.Method
	// Extract returns the raw credential and whether it was present.
	Extract(c *gin.Context) (string, bool)
	// Resolve authenticates the raw credential.
	Resolve(ctx context.Context, credential string) (*userDomain.User, error)
}

// apiKeySource resolves API keys from the X-API-Key header.
type apiKeySource struct {
	apiKeyUseCase authUseCase.APIKeyUseCase
}

func (s *apiKeySource) Name() authDomain.Method { return authDomain.MethodAPIKey }

func (s *apiKeySource) Extract(c *gin.Context) (string, bool) {
	key := c.GetHeader(apiKeyHeader)
	return key, key != ""
}

func (s *apiKeySource) Resolve(ctx context.Context, credential string) (*userDomain.User, error) {
	return s.apiKeyUseCase.Authenticate(ctx, credential)
}

// bearerTokenSource resolves access tokens from the Authorization header.
type bearerTokenSource struct {
	authUseCase authUseCase.AuthUseCase
}

func (s *bearerTokenSource) Name() authDomain.Method { return authDomain.MethodBearerToken }

func (s *bearerTokenSource) Extract(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	// Parse Bearer token (case-insensitive)
	const bearerPrefix = "bearer "
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := authHeader[len(bearerPrefix):]
	return token, token != ""
}

func (s *bearerTokenSource) Resolve(ctx context.Context, credential string) (*userDomain.User, error) {
	return s.authUseCase.AuthenticateAccessToken(ctx, credential)
}

// cookieTokenSource resolves access tokens from the access token cookie.
type cookieTokenSource struct {
	authUseCase authUseCase.AuthUseCase
	cookieName  string
}

func (s *cookieTokenSource) Name() authDomain.Method { return authDomain.MethodCookieToken }

func (s *cookieTokenSource) Extract(c *gin.Context) (string, bool) {
	token, err := c.Cookie(s.cookieName)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

func (s *cookieTokenSource) Resolve(ctx context.Context, credential string) (*userDomain.User, error) {
	return s.authUseCase.AuthenticateAccessToken(ctx, credential)
}

// sessionSource resolves session identifiers from the session cookie.
type sessionSource struct {
	authUseCase authUseCase.AuthUseCase
	cookieName  string
}

func (s *sessionSource) Name() authDomain.Method { return authDomain.MethodSession }

func (s *sessionSource) Extract(c *gin.Context) (string, bool) {
	sessionID, err := c.Cookie(s.cookieName)
	if err != nil || sessionID == "" {
		return "", false
	}
	return sessionID, true
}

func (s *sessionSource) Resolve(ctx context.Context, credential string) (*userDomain.User, error) {
	return s.authUseCase.AuthenticateSession(ctx, credential)
}

// DefaultCredentialSources returns the standard resolution order:
// API key header, then Authorization Bearer token, then the access token
// cookie, then the session cookie.
func DefaultCredentialSources(
	cfg *config.Config,
	auth authUseCase.AuthUseCase,
	apiKeys authUseCase.APIKeyUseCase,
) []CredentialSource {
	return []CredentialSource{
		&apiKeySource{apiKeyUseCase: apiKeys},
		&bearerTokenSource{authUseCase: auth},
		&cookieTokenSource{authUseCase: auth, cookieName: cfg.AccessTokenCookieName},
		&sessionSource{authUseCase: auth, cookieName: cfg.SessionCookieName},
	}
}

// ResolverMiddleware resolves request credentials to an identity and stores
// the result in the request context. It never rejects a request: when no
// source yields a user the request proceeds anonymously and guards decide
// whether that is acceptable for the route.
//
// The middleware:
//  1. Reuses a pre-populated identity if one is already in the context
//  2. Walks the credential sources in order
//  3. Tries the first source whose credential is present; on failure it
//     falls through to the next source without surfacing the error
//  4. Stores the winning identity, or the anonymous identity, via
//     WithAuthentication()
//
// Usage:
//
//	router.Use(ResolverMiddleware(DefaultCredentialSources(cfg, authUseCase, apiKeyUseCase), logger))
func ResolverMiddleware(sources []CredentialSource, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		// An upstream middleware may have resolved the identity already
		if existing, ok := GetAuthentication(ctx); ok && existing != nil {
			c.Next()
			return
		}

		auth := resolveCredentials(c, sources, logger)

		c.Request = c.Request.WithContext(WithAuthentication(ctx, auth))
		c.Next()
	}
}

// resolveCredentials walks the sources in order and returns the first
// successful resolution, or the anonymous identity.
func resolveCredentials(
	c *gin.Context,
	sources []CredentialSource,
	logger *slog.Logger,
) *authDomain.Authentication {
	ctx := c.Request.Context()

	for _, source := range sources {
		credential, present := source.Extract(c)
		if !present {
			continue
		}

		user, err := source.Resolve(ctx, credential)
		if err != nil {
			// A broken credential never blocks resolution; weaker
			// credentials further down the chain may still succeed.
			logger.Debug("credential resolution failed",
				slog.String("source", string(source.Name())),
				slog.String("error", err.Error()))
			continue
		}

		logger.Debug("credential resolution successful",
			slog.String("source", string(source.Name())),
			slog.String("user_id", user.ID.String()))

		return &authDomain.Authentication{User: user, Method: source.Name()}
	}

	return authDomain.Anonymous()
}
