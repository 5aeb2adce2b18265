package domain

import (
	"github.com/allisson/portal/internal/errors"
)

// Domain-specific errors for authentication operations.
var (
	// ErrInvalidToken indicates the token failed signature or claim validation.
	// All decode failures map to this single error so callers cannot
	// distinguish a malformed token from an expired or tampered one.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrInvalidTokenType indicates the token is valid but was issued for a
	// different purpose than the one it was presented for.
	ErrInvalidTokenType = errors.Wrap(errors.ErrUnauthorized, "invalid token type")

	// ErrInvalidSubject indicates the token subject is not a valid user id.
	ErrInvalidSubject = errors.Wrap(errors.ErrUnauthorized, "invalid token subject")

	// ErrInvalidCredentials indicates the email/password combination is wrong.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrAPIKeyNotFound indicates no API key matches the given hash or id.
	ErrAPIKeyNotFound = errors.Wrap(errors.ErrNotFound, "api key not found")

	// ErrAPIKeyInvalid indicates the API key exists but is revoked or expired.
	ErrAPIKeyInvalid = errors.Wrap(errors.ErrUnauthorized, "api key is not valid")

	// ErrSessionNotFound indicates the session id is unknown or expired.
	ErrSessionNotFound = errors.Wrap(errors.ErrUnauthorized, "session not found")
)
