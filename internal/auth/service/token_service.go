package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/allisson/portal/internal/auth/domain"

	apperrors "github.com/allisson/portal/internal/errors"
)

// tokenService implements TokenService using HMAC-SHA256 signed JWTs.
//
// Security Notes:
//   - Every token carries a type claim; consumers must call VerifyType so a
//     token minted for one purpose cannot be replayed for another.
//   - All decode failures collapse into domain.ErrInvalidToken to avoid
//     acting as a validity oracle for attackers probing tokens.
type tokenService struct {
	signingKey []byte
}

// NewTokenService creates a new TokenService signing with the given key.
func NewTokenService(signingKey string) TokenService {
	return &tokenService{
		signingKey: []byte(signingKey),
	}
}

// Issue creates a signed token for the given subject, type, and ttl.
func (s *tokenService) Issue(subject uuid.UUID, tokenType domain.TokenType, ttl time.Duration) (string, error) {
	return s.sign(domain.TokenClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(ttl)),
		},
	})
}

// IssueEmailVerification creates a verify_email token carrying the email
// the verification was requested for.
func (s *tokenService) IssueEmailVerification(subject uuid.UUID, email string, ttl time.Duration) (string, error) {
	return s.sign(domain.TokenClaims{
		TokenType: domain.TokenTypeVerifyEmail,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(ttl)),
		},
	})
}

// sign produces the compact serialization of the claims.
func (s *tokenService) sign(claims domain.TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// Decode verifies the token signature and standard claims.
func (s *tokenService) Decode(tokenString string) (*domain.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &domain.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject tokens signed with a different algorithm family
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*domain.TokenClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

// VerifyType checks that the claims were issued for the expected purpose.
func (s *tokenService) VerifyType(claims *domain.TokenClaims, expected domain.TokenType) error {
	if claims == nil || claims.TokenType != expected {
		return domain.ErrInvalidTokenType
	}
	return nil
}

// Subject extracts the user id from the claims.
func (s *tokenService) Subject(claims *domain.TokenClaims) (uuid.UUID, error) {
	if claims == nil {
		return uuid.Nil, domain.ErrInvalidSubject
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidSubject
	}
	return id, nil
}
