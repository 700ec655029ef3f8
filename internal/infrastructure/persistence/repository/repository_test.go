package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/invoice-studio/pkg/database"
)

func setupDB(t *testing.T) *sqlite.DB {
	t.Helper()
	logger := zap.NewNop()
	db, err := database.New(database.Config{Path: filepath.Join(t.TempDir(), "invoices.db"), MaxOpenConns: 1}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrator(db, logger).Migrate(context.Background()))
	return sqlite.NewDB(db.DB, logger)
}

func TestSequenceRepository_Increment(t *testing.T) {
	ctx := context.Background()
	repo := NewSequenceRepository(setupDB(t), zap.NewNop())

	current, err := repo.Current(ctx, "invoiceCount")
	require.NoError(t, err)
	assert.Zero(t, current)

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Increment(ctx, "invoiceCount")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	other, err := repo.Increment(ctx, "otherCount")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other, "keys are independent")

	require.NoError(t, repo.Set(ctx, "invoiceCount", 7))
	got, err := repo.Increment(ctx, "invoiceCount")
	require.NoError(t, err)
	assert.Equal(t, int64(8), got)
}

func TestSequenceRepository_ConcurrentIncrementsAreUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewSequenceRepository(setupDB(t), zap.NewNop())

	const n = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int64]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repo.Increment(ctx, "invoiceCount")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	current, err := repo.Current(ctx, "invoiceCount")
	require.NoError(t, err)
	assert.Equal(t, int64(n), current)
}

func TestSequenceRepository_RolledBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewSequenceRepository(db, zap.NewNop())

	boom := errors.New("boom")
	err := db.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := repo.Increment(ctx, "invoiceCount")
		require.NoError(t, err)
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	current, err := repo.Current(ctx, "invoiceCount")
	require.NoError(t, err)
	assert.Zero(t, current)
}

func TestPreferenceRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository(setupDB(t), zap.NewNop())

	_, ok, err := repo.Get(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "theme", "dark"))
	require.NoError(t, repo.Set(ctx, "theme", "light"))

	value, ok, err := repo.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", value)
}
