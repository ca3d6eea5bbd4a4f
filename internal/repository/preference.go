package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrPreferenceNotFound is returned by every preference store when the
// owner has never saved a value under the requested name.
var ErrPreferenceNotFound = errors.New("preference not found")

// PreferenceRepository stores preferences in the MySQL preferences table.
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new PreferenceRepository.
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// LoadPreference returns the value stored for owner under name.
func (r *PreferenceRepository) LoadPreference(ctx context.Context, owner, name string) (string, error) {
	query := `SELECT value FROM preferences WHERE owner = ? AND name = ?`

	var value string
	if err := r.db.QueryRowContext(ctx, query, owner, name).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrPreferenceNotFound
		}
		return "", err
	}
	return value, nil
}

// SavePreference inserts or overwrites the value for owner under name.
func (r *PreferenceRepository) SavePreference(ctx context.Context, owner, name, value string) error {
	query := `INSERT INTO preferences (owner, name, value) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value)`

	_, err := r.db.ExecContext(ctx, query, owner, name, value)
	return err
}
