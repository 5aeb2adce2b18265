// Package domain contains the core business entities for authentication.
package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenType identifies the purpose of a signed token. Every token carries
// its type as a claim so a token issued for one purpose cannot be used for
// another (e.g., a refresh token presented as an access token).
type TokenType string

// Supported token types.
const (
	TokenTypeAccess      TokenType = "access"
	TokenTypeRefresh     TokenType = "refresh"
	TokenTypeVerifyEmail TokenType = "verify_email"
)

// TokenClaims are the claims carried by every signed token.
//
// Subject holds the user id. Email is only set for verify_email tokens and
// records the address the verification was requested for.
type TokenClaims struct {
	TokenType TokenType `json:"type"`
	Email     string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}
