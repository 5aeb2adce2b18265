// Package http provides credential resolution middleware, authorization
// guards, and HTTP handlers for authentication.
package http

import (
	"context"

	authDomain "github.com/allisson/portal/internal/auth/domain"
)

// authenticationKey is a context key type for storing authentication results.
type authenticationKey struct{}

// WithAuthentication stores a credential resolution result in the context.
// This is typically called by the resolver middleware; tests and internal
// callers may use it to pre-populate an identity.
func WithAuthentication(ctx context.Context, auth *authDomain.Authentication) context.Context {
	return context.WithValue(ctx, authenticationKey{}, auth)
}

// GetAuthentication retrieves the credential resolution result from the context.
// Returns (auth, true) if resolution ran, or (nil, false) otherwise.
func GetAuthentication(ctx context.Context) (*authDomain.Authentication, bool) {
	auth, ok := ctx.Value(authenticationKey{}).(*authDomain.Authentication)
	return auth, ok
}
