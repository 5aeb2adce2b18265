package domain

import (
	userdomain "github.com/allisson/portal/internal/user/domain"
)

// Method identifies which credential source authenticated a request.
type Method string

// Credential sources, in resolution precedence order.
const (
	MethodAPIKey      Method = "api_key"
	MethodBearerToken Method = "bearer_token"
	MethodCookieToken Method = "cookie_token"
	MethodSession     Method = "session"
	MethodNone        Method = "none"
)

// Authentication is the outcome of credential resolution for one request.
// An anonymous result has a nil User and MethodNone.
type Authentication struct {
	User   *userdomain.User
	Method Method
}

// Anonymous returns the result for a request with no usable credentials.
func Anonymous() *Authentication {
	return &Authentication{Method: MethodNone}
}

// IsAuthenticated reports whether the request resolved to a known user.
func (a *Authentication) IsAuthenticated() bool {
	return a != nil && a.User != nil
}
