package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/okrmaster/okrd/internal/repository"
)

// APIKeyRepository implements repository.APIKeyRepository for SQLite.
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Put stores a key hash for a user, replacing any previous row for the
// same hash.
func (r *APIKeyRepository) Put(ctx context.Context, keyHash, userID, label string) error {
	query := `
		INSERT INTO api_keys (key_hash, user_id, label) VALUES (?, ?, ?)
		ON CONFLICT(key_hash) DO UPDATE SET user_id = excluded.user_id, label = excluded.label
	`
	if _, err := r.db.ExecContext(ctx, query, keyHash, userID, label); err != nil {
		return fmt.Errorf("failed to store api key: %w", err)
	}
	return nil
}

// Resolve maps a key hash to the owning user id.
func (r *APIKeyRepository) Resolve(ctx context.Context, keyHash string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM api_keys WHERE key_hash = ?`, keyHash).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}
	return userID, nil
}
