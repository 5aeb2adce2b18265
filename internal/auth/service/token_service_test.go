package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/portal/internal/auth/domain"
)

const testSigningKey = "test-signing-key"

func TestTokenService_IssueAndDecode(t *testing.T) {
	svc := NewTokenService(testSigningKey)
	subject := uuid.Must(uuid.NewV7())

	for _, tokenType := range []domain.TokenType{
		domain.TokenTypeAccess,
		domain.TokenTypeRefresh,
		domain.TokenTypeVerifyEmail,
	} {
		t.Run(string(tokenType), func(t *testing.T) {
			token, err := svc.Issue(subject, tokenType, time.Hour)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := svc.Decode(token)
			require.NoError(t, err)

			require.NoError(t, svc.VerifyType(claims, tokenType))

			decoded, err := svc.Subject(claims)
			require.NoError(t, err)
			assert.Equal(t, subject, decoded)
		})
	}
}

func TestTokenService_IssueEmailVerification(t *testing.T) {
	svc := NewTokenService(testSigningKey)
	subject := uuid.Must(uuid.NewV7())

	token, err := svc.IssueEmailVerification(subject, "user@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenTypeVerifyEmail, claims.TokenType)
	assert.Equal(t, "user@example.com", claims.Email)

	require.NoError(t, svc.VerifyType(claims, domain.TokenTypeVerifyEmail))
}

func TestTokenService_Decode_Expired(t *testing.T) {
	svc := NewTokenService(testSigningKey)
	subject := uuid.Must(uuid.NewV7())

	token, err := svc.Issue(subject, domain.TokenTypeAccess, -time.Minute)
	require.NoError(t, err)

	claims, err := svc.Decode(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_Decode_Tampered(t *testing.T) {
	svc := NewTokenService(testSigningKey)
	subject := uuid.Must(uuid.NewV7())

	token, err := svc.Issue(subject, domain.TokenTypeAccess, time.Hour)
	require.NoError(t, err)

	// Flip a character in the payload segment
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	claims, err := svc.Decode(tampered)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_Decode_WrongKey(t *testing.T) {
	svc := NewTokenService(testSigningKey)
	other := NewTokenService("another-signing-key")
	subject := uuid.Must(uuid.NewV7())

	token, err := other.Issue(subject, domain.TokenTypeAccess, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Decode(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_Decode_Garbage(t *testing.T) {
	svc := NewTokenService(testSigningKey)

	for _, token := range []string{"", "garbage", "a.b.c", "ey.ey.ey"} {
		claims, err := svc.Decode(token)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	}
}

func TestTokenService_Decode_RejectsUnsignedToken(t *testing.T) {
	svc := NewTokenService(testSigningKey)
	subject := uuid.Must(uuid.NewV7())

	// Token with alg=none must never validate
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, domain.TokenClaims{
		TokenType: domain.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	claims, err := svc.Decode(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_VerifyType_Mismatch(t *testing.T) {
	svc := NewTokenService(testSigningKey)
	subject := uuid.Must(uuid.NewV7())

	// A refresh token must not pass as an access token
	token, err := svc.Issue(subject, domain.TokenTypeRefresh, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Decode(token)
	require.NoError(t, err)

	err = svc.VerifyType(claims, domain.TokenTypeAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidTokenType)

	assert.ErrorIs(t, svc.VerifyType(nil, domain.TokenTypeAccess), domain.ErrInvalidTokenType)
}

func TestTokenService_Subject_Invalid(t *testing.T) {
	svc := NewTokenService(testSigningKey)

	claims := &domain.TokenClaims{
		TokenType: domain.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "not-a-uuid",
		},
	}

	id, err := svc.Subject(claims)
	assert.Equal(t, uuid.Nil, id)
	assert.ErrorIs(t, err, domain.ErrInvalidSubject)

	id, err = svc.Subject(nil)
	assert.Equal(t, uuid.Nil, id)
	assert.ErrorIs(t, err, domain.ErrInvalidSubject)
}
