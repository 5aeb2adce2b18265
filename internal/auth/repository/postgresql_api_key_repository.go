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

// apiKeyColumns is the column list shared by all api key queries.
const apiKeyColumns = `id, user_id, name, key_hash, key_prefix, is_active,
				  last_used_at, expires_at, created_at, updated_at`

// PostgreSQLAPIKeyRepository handles API key persistence for PostgreSQL
type PostgreSQLAPIKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLAPIKeyRepository creates a new PostgreSQLAPIKeyRepository
func NewPostgreSQLAPIKeyRepository(db *sql.DB) *PostgreSQLAPIKeyRepository {
	return &PostgreSQLAPIKeyRepository{
		db: db,
	}
}

// Create inserts a new API key
func (r *PostgreSQLAPIKeyRepository) Create(ctx context.Context, apiKey *domain.APIKey) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO api_keys (id, user_id, name, key_hash, key_prefix, is_active,
				  last_used_at, expires_at, created_at, updated_at)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query,
		apiKey.ID, apiKey.UserID, apiKey.Name, apiKey.KeyHash, apiKey.KeyPrefix,
		apiKey.IsActive, apiKey.LastUsedAt, apiKey.ExpiresAt,
	)
	if err != nil {
		if isPostgreSQLAPIKeyUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "api key already exists")
		}
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// GetByID retrieves an API key by ID
func (r *PostgreSQLAPIKeyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.APIKey, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE id = $1`

	apiKey, err := scanAPIKey(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key by id")
	}

	return apiKey, nil
}

// GetByKeyHash retrieves an API key by the hash of its plaintext
func (r *PostgreSQLAPIKeyRepository) GetByKeyHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE key_hash = $1`

	apiKey, err := scanAPIKey(querier.QueryRowContext(ctx, query, keyHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key by hash")
	}

	return apiKey, nil
}

// ListByUser retrieves a user's API keys ordered by creation date with pagination
func (r *PostgreSQLAPIKeyRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.APIKey, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE user_id = $1
				  ORDER BY created_at DESC OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer rows.Close()

	var apiKeys []*domain.APIKey
	for rows.Next() {
		apiKey, err := scanAPIKey(rows)
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
func (r *PostgreSQLAPIKeyRepository) Revoke(ctx context.Context, id, userID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE api_keys SET is_active = FALSE, updated_at = NOW()
				  WHERE id = $1 AND user_id = $2`

	result, err := querier.ExecContext(ctx, query, id, userID)
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
func (r *PostgreSQLAPIKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE api_keys SET last_used_at = $1, updated_at = NOW() WHERE id = $2`

	_, err := querier.ExecContext(ctx, query, usedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update api key last used")
	}
	return nil
}

// CountExpired counts keys whose expiration passed before the given time
func (r *PostgreSQLAPIKeyRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM api_keys WHERE expires_at IS NOT NULL AND expires_at < $1`

	var count int64
	err := querier.QueryRowContext(ctx, query, before).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired api keys")
	}
	return count, nil
}

// DeleteExpired removes keys whose expiration passed before the given time
func (r *PostgreSQLAPIKeyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM api_keys WHERE expires_at IS NOT NULL AND expires_at < $1`

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

// apiKeyRowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type apiKeyRowScanner interface {
	Scan(dest ...any) error
}

// scanAPIKey scans an api key row handling nullable timestamps.
func scanAPIKey(row apiKeyRowScanner) (*domain.APIKey, error) {
	var apiKey domain.APIKey
	var lastUsedAt sql.NullTime
	var expiresAt sql.NullTime

	err := row.Scan(
		&apiKey.ID, &apiKey.UserID, &apiKey.Name, &apiKey.KeyHash, &apiKey.KeyPrefix,
		&apiKey.IsActive, &lastUsedAt, &expiresAt, &apiKey.CreatedAt, &apiKey.UpdatedAt,
	)
	if err != nil {
		return nil, err
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

// isPostgreSQLAPIKeyUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLAPIKeyUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
