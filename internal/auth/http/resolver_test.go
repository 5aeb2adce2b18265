package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/portal/internal/auth/domain"
)

// newResolverRouter builds a router with the resolver and a probe endpoint
// exposing the resolution outcome.
func newResolverRouter(authUC *mockAuthUseCase, apiKeyUC *mockAPIKeyUseCase) *gin.Engine {
	cfg := newTestConfig()
	router := gin.New()
	router.Use(ResolverMiddleware(DefaultCredentialSources(cfg, authUC, apiKeyUC), testLogger()))
	router.GET("/whoami", func(c *gin.Context) {
		auth, _ := GetAuthentication(c.Request.Context())
		response := gin.H{"method": string(auth.Method)}
		if auth.IsAuthenticated() {
			response["user_id"] = auth.User.ID.String()
		}
		c.JSON(http.StatusOK, response)
	})
	return router
}

func TestResolverMiddleware_NoCredentials(t *testing.T) {
	router := newResolverRouter(new(mockAuthUseCase), new(mockAPIKeyUseCase))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	recorder := performRequest(router, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder.Body)
	assert.Equal(t, "none", body["method"])
	assert.NotContains(t, body, "user_id")
}

func TestResolverMiddleware_APIKey(t *testing.T) {
	authUC := new(mockAuthUseCase)
	apiKeyUC := new(mockAPIKeyUseCase)
	user := newActiveUser()

	apiKeyUC.On("Authenticate", mock.Anything, "pk_test-key").Return(user, nil)

	router := newResolverRouter(authUC, apiKeyUC)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-API-Key", "pk_test-key")
	recorder := performRequest(router, req)

	body := decodeBody(t, recorder.Body)
	assert.Equal(t, "api_key", body["method"])
	assert.Equal(t, user.ID.String(), body["user_id"])
}

func TestResolverMiddleware_APIKeyBeatsBearer(t *testing.T) {
	authUC := new(mockAuthUseCase)
	apiKeyUC := new(mockAPIKeyUseCase)
	user := newActiveUser()

	apiKeyUC.On("Authenticate", mock.Anything, "pk_test-key").Return(user, nil)

	router := newResolverRouter(authUC, apiKeyUC)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-API-Key", "pk_test-key")
	req.Header.Set("Authorization", "Bearer some-access-token")
	recorder := performRequest(router, req)

	body := decodeBody(t, recorder.Body)
	assert.Equal(t, "api_key", body["method"])
	authUC.AssertNotCalled(t, "AuthenticateAccessToken", mock.Anything, mock.Anything)
}

func TestResolverMiddleware_BearerToken(t *testing.T) {
	authUC := new(mockAuthUseCase)
	apiKeyUC := new(mockAPIKeyUseCase)
	user := newActiveUser()

	authUC.On("AuthenticateAccessToken", mock.Anything, "some-access-token").Return(user, nil)

	router := newResolverRouter(authUC, apiKeyUC)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "BEARER some-access-token")
	recorder := performRequest(router, req)

	body := decodeBody(t, recorder.Body)
	assert.Equal(t, "bearer_token", body["method"])
	assert.Equal(t, user.ID.String(), body["user_id"])
}

func TestResolverMiddleware_BearerBeatsSession(t *testing.T) {
	authUC := new(mockAuthUseCase)
	apiKeyUC := new(mockAPIKeyUseCase)
	user := newActiveUser()

	authUC.On("AuthenticateAccessToken", mock.Anything, "some-access-token").Return(user, nil)

	router := newResolverRouter(authUC, apiKeyUC)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer some-access-token")
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: "session-id"})
	recorder := performRequest(router, req)

	body := decodeBody(t, recorder.Body)
	assert.Equal(t, "bearer_token", body["method"])
	authUC.AssertNotCalled(t, "AuthenticateSession", mock.Anything, mock.Anything)
}

func TestResolverMiddleware_InvalidBearerFallsThroughToSession(t *testing.T) {
	authUC := new(mockAuthUseCase)
	apiKeyUC := new(mockAPIKeyUseCase)
	user := newActiveUser()

	authUC.On("AuthenticateAccessToken", mock.Anything, "expired-token").
		Return(nil, authDomain.ErrInvalidToken)
	authUC.On("AuthenticateSession", mock.Anything, "session-id").Return(user, nil)

	router := newResolverRouter(authUC, apiKeyUC)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: "session-id"})
	recorder := performRequest(router, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder.Body)
	assert.Equal(t, "session", body["method"])
	assert.Equal(t, user.ID.String(), body["user_id"])
}

func TestResolverMiddleware_MalformedAuthorizationHeaderIgnored(t *testing.T) {
	authUC := new(mockAuthUseCase)
	apiKeyUC := new(mockAPIKeyUseCase)
	user := newActiveUser()

	authUC.On("AuthenticateSession", mock.Anything, "session-id").Return(user, nil)

	router := newResolverRouter(authUC, apiKeyUC)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: "session-id"})
	recorder := performRequest(router, req)

	body := decodeBody(t, recorder.Body)
	assert.Equal(t, "session", body["method"])
	authUC.AssertNotCalled(t, "AuthenticateAccessToken", mock.Anything, mock.Anything)
}

func TestResolverMiddleware_AccessTokenCookie(t *testing.T) {
	authUC := new(mockAuthUseCase)
	apiKeyUC := new(mockAPIKeyUseCase)
	user := newActiveUser()

	authUC.On("AuthenticateAccessToken", mock.Anything, "cookie-token").Return(user, nil)

	router := newResolverRouter(authUC, apiKeyUC)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
	recorder := performRequest(router, req)

	body := decodeBody(t, recorder.Body)
	assert.Equal(t, "cookie_token", body["method"])
	assert.Equal(t, user.ID.String(), body["user_id"])
}

func TestResolverMiddleware_AllSourcesFailResolvesAnonymous(t *testing.T) {
	authUC := new(mockAuthUseCase)
	apiKeyUC := new(mockAPIKeyUseCase)

	apiKeyUC.On("Authenticate", mock.Anything, "pk_bad").Return(nil, authDomain.ErrAPIKeyInvalid)
	authUC.On("AuthenticateAccessToken", mock.Anything, "bad-token").
		Return(nil, authDomain.ErrInvalidToken)
	authUC.On("AuthenticateSession", mock.Anything, "bad-session").
		Return(nil, authDomain.ErrSessionNotFound)

	router := newResolverRouter(authUC, apiKeyUC)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-API-Key", "pk_bad")
	req.Header.Set("Authorization", "Bearer bad-token")
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: "bad-session"})
	recorder := performRequest(router, req)

	// The resolver never rejects; guards decide whether anonymous is acceptable
	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder.Body)
	assert.Equal(t, "none", body["method"])
}

func TestResolverMiddleware_ReusesPrepopulatedIdentity(t *testing.T) {
	authUC := new(mockAuthUseCase)
	apiKeyUC := new(mockAPIKeyUseCase)
	user := newActiveUser()
	cfg := newTestConfig()

	router := gin.New()
	router.Use(setAuthentication(&authDomain.Authentication{User: user, Method: authDomain.MethodSession}))
	router.Use(ResolverMiddleware(DefaultCredentialSources(cfg, authUC, apiKeyUC), testLogger()))
	router.GET("/whoami", func(c *gin.Context) {
		auth, _ := GetAuthentication(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"method": string(auth.Method), "user_id": auth.User.ID.String()})
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-API-Key", "pk_test-key")
	recorder := performRequest(router, req)

	body := decodeBody(t, recorder.Body)
	assert.Equal(t, "session", body["method"])
	assert.Equal(t, user.ID.String(), body["user_id"])
	apiKeyUC.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestResolverMiddleware_EmptyHeaderValuesIgnored(t *testing.T) {
	authUC := new(mockAuthUseCase)
	apiKeyUC := new(mockAPIKeyUseCase)

	router := newResolverRouter(authUC, apiKeyUC)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer ")
	recorder := performRequest(router, req)

	body := decodeBody(t, recorder.Body)
	assert.Equal(t, "none", body["method"])
	authUC.AssertNotCalled(t, "AuthenticateAccessToken", mock.Anything, mock.Anything)
}
