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

// SequenceRepository implements port.SequenceStore on the counters table
type SequenceRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *sqlite.DB, logger *zap.Logger) *SequenceRepository {
	return &SequenceRepository{db: db, logger: logger}
}

// Increment adds one to the counter and returns the new value. A missing
// counter starts at zero, so the first call returns 1. The read and write
// are a single statement; concurrent callers never see the same value.
func (r *SequenceRepository) Increment(ctx context.Context, key string) (int64, error) {
	query := `
		INSERT INTO counters (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1, updated_at = CURRENT_TIMESTAMP
		RETURNING value
	`

	var value int64
	if err := r.db.Executor(ctx).QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		r.logger.Error("Failed to increment counter", zap.String("key", key), zap.Error(err))
		return 0, fmt.Errorf("failed to increment counter %s: %w", key, err)
	}
	return value, nil
}

// Current returns the stored value without changing it; 0 when unset.
func (r *SequenceRepository) Current(ctx context.Context, key string) (int64, error) {
	var value int64
	err := r.db.Executor(ctx).QueryRowContext(ctx, "SELECT value FROM counters WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter %s: %w", key, err)
	}
	return value, nil
}

// Set overwrites the counter, e.g. when carrying over numbering from another install.
func (r *SequenceRepository) Set(ctx context.Context, key string, value int64) error {
	query := `
		INSERT INTO counters (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.Executor(ctx).ExecContext(ctx, query, key, value); err != nil {
		r.logger.Error("Failed to set counter", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set counter %s: %w", key, err)
	}
	return nil
}

// Verify interface compliance
var _ port.SequenceStore = (*SequenceRepository)(nil)
