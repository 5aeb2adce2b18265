package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/allisson/portal/internal/errors"
)

const (
	// apiKeyPrefix marks plaintext API keys so they are recognizable in
	// configuration files and secret scanners.
	apiKeyPrefix = "pk_"

	// displayPrefixLength is how many characters of the plaintext key are
	// kept for identifying the key in listings.
	displayPrefixLength = 12
)

// apiKeyService implements APIKeyService using SHA-256 for key hashing.
type apiKeyService struct{}

// NewAPIKeyService creates a new APIKeyService instance using SHA-256 for key hashing.
func NewAPIKeyService() APIKeyService {
	return &apiKeyService{}
}

// GenerateKey creates a new cryptographically secure 32-byte random API key.
// The key is base64 URL-encoded and prefixed with "pk_" for easy recognition.
// Returns the plain key, its SHA-256 hash, and the display prefix.
func (s *apiKeyService) GenerateKey() (plainKey string, keyHash string, keyPrefix string, error error) {
	// Generate 32 random bytes (256 bits)
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", "", apperrors.Wrap(err, "failed to generate random api key")
	}

	// Encode to base64 URL-safe string for text representation
	plainKey = apiKeyPrefix + base64.URLEncoding.EncodeToString(randomBytes)

	// Hash the key using SHA-256
	keyHash = s.HashKey(plainKey)

	// Keep a short prefix for display in listings
	keyPrefix = plainKey[:displayPrefixLength]

	return plainKey, keyHash, keyPrefix, nil
}

// HashKey hashes a plain text key using SHA-256.
// Returns the hash as a hexadecimal string.
func (s *apiKeyService) HashKey(plainKey string) string {
	hash := sha256.Sum256([]byte(plainKey))
	return hex.EncodeToString(hash[:])
}
