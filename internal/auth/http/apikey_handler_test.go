package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/portal/internal/auth/domain"
)

// newAPIKeyRouter builds a router with the API key endpoints and an optional
// pre-populated identity.
func newAPIKeyRouter(apiKeyUC *mockAPIKeyUseCase, auth *authDomain.Authentication) *gin.Engine {
	handler := NewAPIKeyHandler(apiKeyUC, testLogger())

	router := gin.New()
	if auth != nil {
		router.Use(setAuthentication(auth))
	}
	router.POST("/v1/api-keys", handler.CreateHandler)
	router.GET("/v1/api-keys", handler.ListHandler)
	router.DELETE("/v1/api-keys/:id", handler.RevokeHandler)
	return router
}

func TestAPIKeyHandler_Create(t *testing.T) {
	apiKeyUC := new(mockAPIKeyUseCase)
	user := newActiveUser()

	apiKey := &authDomain.APIKey{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    user.ID,
		Name:      "ci-deploy",
		KeyPrefix: "pk_abc123def",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	apiKeyUC.On("Issue", mock.Anything, user.ID, &authDomain.CreateAPIKeyInput{Name: "ci-deploy"}).
		Return(&authDomain.CreateAPIKeyOutput{APIKey: apiKey, PlainKey: "pk_plain-key"}, nil)

	router := newAPIKeyRouter(apiKeyUC, authenticated(user))
	req := httptest.NewRequest(http.MethodPost, "/v1/api-keys",
		strings.NewReader(`{"name":"ci-deploy"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := performRequest(router, req)

	require.Equal(t, http.StatusCreated, recorder.Code)
	body := decodeBody(t, recorder.Body)
	assert.Equal(t, "pk_plain-key", body["key"])

	keyBody := body["api_key"].(map[string]any)
	assert.Equal(t, apiKey.ID.String(), keyBody["id"])
	assert.Equal(t, "ci-deploy", keyBody["name"])
	assert.Equal(t, "pk_abc123def", keyBody["key_prefix"])
	// The hash never leaves the server
	assert.NotContains(t, keyBody, "key_hash")
}

func TestAPIKeyHandler_Create_Anonymous(t *testing.T) {
	router := newAPIKeyRouter(new(mockAPIKeyUseCase), authDomain.Anonymous())
	req := httptest.NewRequest(http.MethodPost, "/v1/api-keys",
		strings.NewReader(`{"name":"ci-deploy"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := performRequest(router, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAPIKeyHandler_Create_ValidationError(t *testing.T) {
	router := newAPIKeyRouter(new(mockAPIKeyUseCase), authenticated(newActiveUser()))

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{`},
		{"missing name", `{}`},
		{"blank name", `{"name":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/api-keys", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			recorder := performRequest(router, req)

			assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		})
	}
}

func TestAPIKeyHandler_List(t *testing.T) {
	apiKeyUC := new(mockAPIKeyUseCase)
	user := newActiveUser()

	apiKeys := []*authDomain.APIKey{
		{ID: uuid.Must(uuid.NewV7()), UserID: user.ID, Name: "key-one", KeyPrefix: "pk_one"},
		{ID: uuid.Must(uuid.NewV7()), UserID: user.ID, Name: "key-two", KeyPrefix: "pk_two"},
	}

	apiKeyUC.On("List", mock.Anything, user.ID, 0, 50).Return(apiKeys, nil)

	router := newAPIKeyRouter(apiKeyUC, authenticated(user))
	req := httptest.NewRequest(http.MethodGet, "/v1/api-keys", nil)
	recorder := performRequest(router, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder.Body)
	data := body["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, "key-one", data[0].(map[string]any)["name"])
}

func TestAPIKeyHandler_List_Pagination(t *testing.T) {
	apiKeyUC := new(mockAPIKeyUseCase)
	user := newActiveUser()

	apiKeyUC.On("List", mock.Anything, user.ID, 10, 5).Return([]*authDomain.APIKey{}, nil)

	router := newAPIKeyRouter(apiKeyUC, authenticated(user))
	req := httptest.NewRequest(http.MethodGet, "/v1/api-keys?offset=10&limit=5", nil)
	recorder := performRequest(router, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	apiKeyUC.AssertCalled(t, "List", mock.Anything, user.ID, 10, 5)
}

func TestAPIKeyHandler_List_InvalidPagination(t *testing.T) {
	router := newAPIKeyRouter(new(mockAPIKeyUseCase), authenticated(newActiveUser()))
	req := httptest.NewRequest(http.MethodGet, "/v1/api-keys?limit=500", nil)
	recorder := performRequest(router, req)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestAPIKeyHandler_Revoke(t *testing.T) {
	apiKeyUC := new(mockAPIKeyUseCase)
	user := newActiveUser()
	keyID := uuid.Must(uuid.NewV7())

	apiKeyUC.On("Revoke", mock.Anything, keyID, user.ID).Return(nil)

	router := newAPIKeyRouter(apiKeyUC, authenticated(user))
	req := httptest.NewRequest(http.MethodDelete, "/v1/api-keys/"+keyID.String(), nil)
	recorder := performRequest(router, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestAPIKeyHandler_Revoke_NotFound(t *testing.T) {
	apiKeyUC := new(mockAPIKeyUseCase)
	user := newActiveUser()
	keyID := uuid.Must(uuid.NewV7())

	// Keys owned by other users are reported as not found
	apiKeyUC.On("Revoke", mock.Anything, keyID, user.ID).Return(authDomain.ErrAPIKeyNotFound)

	router := newAPIKeyRouter(apiKeyUC, authenticated(user))
	req := httptest.NewRequest(http.MethodDelete, "/v1/api-keys/"+keyID.String(), nil)
	recorder := performRequest(router, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAPIKeyHandler_Revoke_InvalidID(t *testing.T) {
	router := newAPIKeyRouter(new(mockAPIKeyUseCase), authenticated(newActiveUser()))
	req := httptest.NewRequest(http.MethodDelete, "/v1/api-keys/not-a-uuid", nil)
	recorder := performRequest(router, req)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}
