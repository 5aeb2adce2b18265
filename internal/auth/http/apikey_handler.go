package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/portal/internal/auth/domain"
	"github.com/allisson/portal/internal/auth/http/dto"
	authUseCase "github.com/allisson/portal/internal/auth/usecase"
	"github.com/allisson/portal/internal/httputil"
	customValidation "github.com/allisson/portal/internal/validation"
)

// APIKeyHandler handles HTTP requests for API key management operations.
// All operations are scoped to the authenticated user.
type APIKeyHandler struct {
	apiKeyUseCase authUseCase.APIKeyUseCase
	logger        *slog.Logger
}

// NewAPIKeyHandler creates a new API key handler with required dependencies.
func NewAPIKeyHandler(
	apiKeyUseCase authUseCase.APIKeyUseCase,
	logger *slog.Logger,
) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyUseCase: apiKeyUseCase,
		logger:        logger,
	}
}

// CreateHandler issues a new API key for the authenticated user.
// POST /v1/api-keys - Requires authentication.
// Returns 201 Created with the key metadata and the plaintext key.
func (h *APIKeyHandler) CreateHandler(c *gin.Context) {
	auth, ok := GetAuthentication(c.Request.Context())
	if !ok || !auth.IsAuthenticated() {
		httputil.HandleUnauthenticatedGin(c)
		return
	}

	var req dto.CreateAPIKeyRequest

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
	output, err := h.apiKeyUseCase.Issue(c.Request.Context(), auth.User.ID, &authDomain.CreateAPIKeyInput{
		Name:      req.Name,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response with the plaintext key (only time it is visible)
	response := dto.CreateAPIKeyResponse{
		APIKey: dto.MapAPIKeyToResponse(output.APIKey),
		Key:    output.PlainKey,
	}

	c.JSON(http.StatusCreated, response)
}

// ListHandler lists the authenticated user's API keys.
// GET /v1/api-keys?offset=0&limit=50 - Requires authentication.
// Returns 200 OK with the key list (no key material beyond display prefixes).
func (h *APIKeyHandler) ListHandler(c *gin.Context) {
	auth, ok := GetAuthentication(c.Request.Context())
	if !ok || !auth.IsAuthenticated() {
		httputil.HandleUnauthenticatedGin(c)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	apiKeys, err := h.apiKeyUseCase.List(c.Request.Context(), auth.User.ID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeysToListResponse(apiKeys))
}

// RevokeHandler revokes one of the authenticated user's API keys.
// DELETE /v1/api-keys/:id - Requires authentication.
// Returns 204 No Content. Keys owned by other users report 404.
func (h *APIKeyHandler) RevokeHandler(c *gin.Context) {
	auth, ok := GetAuthentication(c.Request.Context())
	if !ok || !auth.IsAuthenticated() {
		httputil.HandleUnauthenticatedGin(c)
		return
	}

	// Parse and validate UUID
	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid API key ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.apiKeyUseCase.Revoke(c.Request.Context(), keyID, auth.User.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
