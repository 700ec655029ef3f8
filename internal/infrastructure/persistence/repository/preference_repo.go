package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/infrastructure/persistence/sqlite"
)

// PreferenceRepository implements port.PreferenceStore
type PreferenceRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *sqlite.DB, logger *zap.Logger) *PreferenceRepository {
	return &PreferenceRepository{db: db, logger: logger}
}

// Get returns the stored value and whether one exists
func (r *PreferenceRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.Executor(ctx).QueryRowContext(ctx, "SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("Failed to get preference", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return value, true, nil
}

// Set creates or replaces the value
func (r *PreferenceRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.Executor(ctx).ExecContext(ctx, query, key, value); err != nil {
		r.logger.Error("Failed to set preference", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}

// Verify interface compliance
var _ port.PreferenceStore = (*PreferenceRepository)(nil)
