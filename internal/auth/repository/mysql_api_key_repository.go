package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/portal/internal/auth/domain"
	"github.com/allisson/portal/internal/database"

	apperrors "github.com/allisson/portal/internal/errors"
)

// MySQLAPIKeyRepository handles API key persistence for MySQL
type MySQLAPIKeyRepository struct {
	db *sql.DB
}

// NewMySQLAPIKeyRepository creates a new MySQLAPIKeyRepository
func NewMySQLAPIKeyRepository(db *sql.DB) *MySQLAPIKeyRepository {
	return &MySQLAPIKeyRepository{
		db: db,
	}
}

// Create inserts a new API key
func (r *MySQLAPIKeyRepository) Create(ctx context.Context, apiKey *domain.APIKey) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO api_keys (id, user_id, name, key_hash, key_prefix, is_active,
			  last_used_at, expires_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	// Convert UUIDs to bytes for MySQL BINARY(16)
	idBytes, err := apiKey.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := apiKey.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user UUID")
	}

	_, err = querier.ExecContext(ctx, query,
		idBytes, userIDBytes, apiKey.Name, apiKey.KeyHash, apiKey.KeyPrefix,
		apiKey.IsActive, apiKey.LastUsedAt, apiKey.ExpiresAt,
	)
	if err != nil {
		if isMySQLAPIKeyUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "api key already exists")
		}
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// GetByID retrieves an API key by ID
func (r *MySQLAPIKeyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.APIKey, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	apiKey, err := scanMySQLAPIKey(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key by id")
	}

	return apiKey, nil
}

// GetByKeyHash retrieves an API key by the hash of its plaintext
func (r *MySQLAPIKeyRepository) GetByKeyHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE key_hash = ?`

	apiKey, err := scanMySQLAPIKey(querier.QueryRowContext(ctx, query, keyHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key by hash")
	}

	return apiKey, nil
}

// ListByUser retrieves a user's API keys ordered by creation date with pagination
func (r *MySQLAPIKeyRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.APIKey, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE user_id = ?
			  ORDER BY created_at DESC LIMIT ? OFFSET ?`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user UUID")
	}

	rows, err := querier.QueryContext(ctx, query, userIDBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer rows.Close()

	var apiKeys []*domain.APIKey
	for rows.Next() {
		apiKey, err := scanMySQLAPIKey(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api key")
		}
		apiKeys = append(apiKeys, apiKey)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate api keys")
	}

	return apiKeys, nil
}

// Revoke soft-deletes the key by clearing its active flag. The key row is
// kept for audit purposes. Scoped to the owning user.
func (r *MySQLAPIKeyRepository) Revoke(ctx context.Context, id, userID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE api_keys SET is_active = FALSE, updated_at = NOW()
			  WHERE id = ? AND user_id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user UUID")
	}

	result, err := querier.ExecContext(ctx, query, idBytes, userIDBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke api key")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrAPIKeyNotFound
	}
	return nil
}

// UpdateLastUsed records when the key last authenticated a request
func (r *MySQLAPIKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE api_keys SET last_used_at = ?, updated_at = NOW() WHERE id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(ctx, query, usedAt, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to update api key last used")
	}
	return nil
}

// CountExpired counts keys whose expiration passed before the given time
func (r *MySQLAPIKeyRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM api_keys WHERE expires_at IS NOT NULL AND expires_at < ?`

	var count int64
	err := querier.QueryRowContext(ctx, query, before).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired api keys")
	}
	return count, nil
}

// DeleteExpired removes keys whose expiration passed before the given time
func (r *MySQLAPIKeyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM api_keys WHERE expires_at IS NOT NULL AND expires_at < ?`

	result, err := querier.ExecContext(ctx, query, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired api keys")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rowsAffected, nil
}

// scanMySQLAPIKey scans an api key row converting BINARY(16) ids back to UUIDs.
func scanMySQLAPIKey(row apiKeyRowScanner) (*domain.APIKey, error) {
	var apiKey domain.APIKey
	var idBytes, userIDBytes []byte
	var lastUsedAt sql.NullTime
	var expiresAt sql.NullTime

	err := row.Scan(
		&idBytes, &userIDBytes, &apiKey.Name, &apiKey.KeyHash, &apiKey.KeyPrefix,
		&apiKey.IsActive, &lastUsedAt, &expiresAt, &apiKey.CreatedAt, &apiKey.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Convert bytes back to UUIDs
	if err := apiKey.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := apiKey.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user UUID")
	}

	if lastUsedAt.Valid {
		usedAt := lastUsedAt.Time
		apiKey.LastUsedAt = &usedAt
	}
	if expiresAt.Valid {
		expAt := expiresAt.Time
		apiKey.ExpiresAt = &expAt
	}

	return &apiKey, nil
}

// isMySQLAPIKeyUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLAPIKeyUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
