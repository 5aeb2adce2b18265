package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	authDomain "github.com/allisson/portal/internal/auth/domain"
	userDomain "github.com/allisson/portal/internal/user/domain"
)

// newGuardRouter builds a router with a pre-populated identity and the guard
// under test.
func newGuardRouter(auth *authDomain.Authentication, guard gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	if auth != nil {
		router.Use(setAuthentication(auth))
	}
	router.GET("/protected", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func authenticated(user *userDomain.User) *authDomain.Authentication {
	return &authDomain.Authentication{User: user, Method: authDomain.MethodSession}
}

func TestRequireAuthenticated(t *testing.T) {
	user := newActiveUser()

	tests := []struct {
		name       string
		auth       *authDomain.Authentication
		wantStatus int
	}{
		{"no resolution result", nil, http.StatusUnauthorized},
		{"anonymous", authDomain.Anonymous(), http.StatusUnauthorized},
		{"authenticated", authenticated(user), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newGuardRouter(tt.auth, RequireAuthenticated())
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			recorder := performRequest(router, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestRequireStaff(t *testing.T) {
	regular := newActiveUser()
	staff := newActiveUser()
	staff.IsStaff = true
	admin := newActiveUser()
	admin.IsSuperuser = true

	tests := []struct {
		name       string
		auth       *authDomain.Authentication
		wantStatus int
		wantCode   string
	}{
		{"anonymous", authDomain.Anonymous(), http.StatusUnauthorized, ""},
		{"regular user", authenticated(regular), http.StatusForbidden, "staff_required"},
		{"admin without staff flag", authenticated(admin), http.StatusForbidden, "staff_required"},
		{"staff user", authenticated(staff), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newGuardRouter(tt.auth, RequireStaff())
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			recorder := performRequest(router, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantCode != "" {
				body := decodeBody(t, recorder.Body)
				assert.Equal(t, tt.wantCode, body["code"])
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	staff := newActiveUser()
	staff.IsStaff = true
	admin := newActiveUser()
	admin.IsSuperuser = true

	tests := []struct {
		name       string
		auth       *authDomain.Authentication
		wantStatus int
		wantCode   string
	}{
		{"anonymous", authDomain.Anonymous(), http.StatusUnauthorized, ""},
		{"regular user", authenticated(newActiveUser()), http.StatusForbidden, "admin_required"},
		// Staff status does not imply admin access
		{"staff user", authenticated(staff), http.StatusForbidden, "admin_required"},
		{"admin user", authenticated(admin), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newGuardRouter(tt.auth, RequireAdmin())
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			recorder := performRequest(router, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantCode != "" {
				body := decodeBody(t, recorder.Body)
				assert.Equal(t, tt.wantCode, body["code"])
			}
		})
	}
}

func TestRequireMembership(t *testing.T) {
	basic := userDomain.MembershipBasic
	member := newActiveUser()
	member.Membership = &basic

	tests := []struct {
		name       string
		auth       *authDomain.Authentication
		wantStatus int
		wantCode   string
	}{
		{"anonymous", authDomain.Anonymous(), http.StatusUnauthorized, ""},
		{"no membership", authenticated(newActiveUser()), http.StatusForbidden, "membership_required"},
		{"basic member", authenticated(member), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newGuardRouter(tt.auth, RequireMembership())
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			recorder := performRequest(router, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantCode != "" {
				body := decodeBody(t, recorder.Body)
				assert.Equal(t, tt.wantCode, body["code"])
			}
		})
	}
}

func TestRequireHigherMembership(t *testing.T) {
	newMember := func(tier userDomain.MembershipTier) *authDomain.Authentication {
		user := newActiveUser()
		user.Membership = &tier
		return authenticated(user)
	}

	tests := []struct {
		name       string
		auth       *authDomain.Authentication
		wantStatus int
		wantCode   string
	}{
		{"anonymous", authDomain.Anonymous(), http.StatusUnauthorized, ""},
		{"no membership", authenticated(newActiveUser()), http.StatusForbidden, "higher_membership_required"},
		{"basic member", newMember(userDomain.MembershipBasic), http.StatusForbidden, "higher_membership_required"},
		{"supporting member", newMember(userDomain.MembershipSupporting), http.StatusOK, ""},
		{"sponsor member", newMember(userDomain.MembershipSponsor), http.StatusOK, ""},
		{"managing member", newMember(userDomain.MembershipManaging), http.StatusOK, ""},
		{"contributing member", newMember(userDomain.MembershipContributing), http.StatusOK, ""},
		{"fellow member", newMember(userDomain.MembershipFellow), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newGuardRouter(tt.auth, RequireHigherMembership())
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			recorder := performRequest(router, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantCode != "" {
				body := decodeBody(t, recorder.Body)
				assert.Equal(t, tt.wantCode, body["code"])
			}
		})
	}
}
