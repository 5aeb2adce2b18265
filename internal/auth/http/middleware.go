package http

import (
	"github.com/gin-gonic/gin"

	"github.com/allisson/portal/internal/httputil"
)

// Machine-stable codes returned with 403 responses so clients can branch
// without parsing messages.
const (
	CodeStaffRequired            = "staff_required"
	CodeAdminRequired            = "admin_required"
	CodeMembershipRequired       = "membership_required"
	CodeHigherMembershipRequired = "higher_membership_required"
)

// RequireAuthenticated rejects anonymous requests with 401 Unauthorized.
//
// It MUST be used after ResolverMiddleware; a missing resolution result is
// treated as anonymous.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := GetAuthentication(c.Request.Context())
		if !ok || !auth.IsAuthenticated() {
			httputil.HandleUnauthenticatedGin(c)
			return
		}
		c.Next()
	}
}

// RequireStaff allows only staff users. Anonymous requests get 401,
// authenticated non-staff users get 403 with code "staff_required".
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := GetAuthentication(c.Request.Context())
		if !ok || !auth.IsAuthenticated() {
			httputil.HandleUnauthenticatedGin(c)
			return
		}
		if !auth.User.IsStaff {
			httputil.HandleForbiddenGin(c, CodeStaffRequired, "Staff access is required")
			return
		}
		c.Next()
	}
}

// RequireAdmin allows only superusers. Staff status alone does not grant
// admin access.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := GetAuthentication(c.Request.Context())
		if !ok || !auth.IsAuthenticated() {
			httputil.HandleUnauthenticatedGin(c)
			return
		}
		if !auth.User.IsSuperuser {
			httputil.HandleForbiddenGin(c, CodeAdminRequired, "Administrator access is required")
			return
		}
		c.Next()
	}
}

// RequireMembership allows only users with a membership record at any tier.
func RequireMembership() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := GetAuthentication(c.Request.Context())
		if !ok || !auth.IsAuthenticated() {
			httputil.HandleUnauthenticatedGin(c)
			return
		}
		if !auth.User.HasMembership() {
			httputil.HandleForbiddenGin(c, CodeMembershipRequired, "An active membership is required")
			return
		}
		c.Next()
	}
}

// RequireHigherMembership allows only users with a membership above the
// basic tier.
func RequireHigherMembership() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := GetAuthentication(c.Request.Context())
		if !ok || !auth.IsAuthenticated() {
			httputil.HandleUnauthenticatedGin(c)
			return
		}
		if !auth.User.HasHigherMembership() {
			httputil.HandleForbiddenGin(c, CodeHigherMembershipRequired, "A membership above the basic tier is required")
			return
		}
		c.Next()
	}
}
