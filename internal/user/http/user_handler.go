// Package http provides HTTP handlers for user account operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/portal/internal/auth/http"
	"github.com/allisson/portal/internal/httputil"
	"github.com/allisson/portal/internal/user/http/dto"
	"github.com/allisson/portal/internal/user/usecase"
	customValidation "github.com/allisson/portal/internal/validation"
)

// UserHandler handles user account HTTP requests.
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler with required dependencies.
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// MeHandler returns the authenticated user's own account.
// GET /v1/me - Requires authentication.
// Returns 200 OK with the account data.
func (h *UserHandler) MeHandler(c *gin.Context) {
	auth, ok := authHTTP.GetAuthentication(c.Request.Context())
	if !ok || !auth.IsAuthenticated() {
		httputil.HandleUnauthenticatedGin(c)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(auth.User))
}

// ListHandler lists user accounts.
// GET /v1/admin/users?offset=0&limit=50 - Requires staff access.
// Returns 200 OK with the user list.
func (h *UserHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	users, err := h.userUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUsersToListResponse(users))
}

// UpdateHandler applies a partial update to a user account.
// PATCH /v1/admin/users/:id - Requires admin access.
// Returns 200 OK with the updated account data.
func (h *UserHandler) UpdateHandler(c *gin.Context) {
	// Parse and validate UUID
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid user ID format: must be a valid UUID"),
			h.logger)
		return
	}

	var req dto.UpdateUserRequest

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

	user, err := h.userUseCase.Update(c.Request.Context(), userID, dto.ToUpdateUserInput(&req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// ProfileHandler returns the member profile view for the authenticated user.
// GET /v1/members/profile - Requires a membership at any tier.
// Returns 200 OK with the member's account and tier.
func (h *UserHandler) ProfileHandler(c *gin.Context) {
	auth, ok := authHTTP.GetAuthentication(c.Request.Context())
	if !ok || !auth.IsAuthenticated() {
		httputil.HandleUnauthenticatedGin(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       dto.MapUserToResponse(auth.User),
		"membership": auth.User.Membership,
	})
}

// VotingHandler reports voting eligibility for the authenticated member.
// GET /v1/members/voting - Requires a membership above the basic tier.
// Returns 200 OK.
func (h *UserHandler) VotingHandler(c *gin.Context) {
	auth, ok := authHTTP.GetAuthentication(c.Request.Context())
	if !ok || !auth.IsAuthenticated() {
		httputil.HandleUnauthenticatedGin(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":  auth.User.ID.String(),
		"eligible": true,
		"tier":     auth.User.Membership,
	})
}
