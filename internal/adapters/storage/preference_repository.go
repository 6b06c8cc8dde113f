package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/xvierd/arc-cli/internal/ports"
)

// preferenceRepository implements ports.PreferenceStore on the preferences table.
type preferenceRepository struct {
	db *sql.DB
}

// newPreferenceRepository creates a new preference repository.
func newPreferenceRepository(db *sql.DB) ports.PreferenceStore {
	return &preferenceRepository{db: db}
}

// GetBool returns the stored value for key, or def when it has never been written.
func (r *preferenceRepository) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to read preference %q: %w", key, err)
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("failed to parse preference %q: %w", key, err)
	}
	return v, nil
}

// SetBool stores value under key, replacing any previous value.
func (r *preferenceRepository) SetBool(ctx context.Context, key string, value bool) error {
	query := `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, strconv.FormatBool(value), time.Now()); err != nil {
		return fmt.Errorf("failed to write preference %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *preferenceRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete preference %q: %w", key, err)
	}
	return nil
}
