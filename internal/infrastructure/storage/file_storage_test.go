package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalFileStorage_SaveAndRead(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs := NewLocalFileStorage(dir, zap.NewNop())

	t.Run("creates parent directories", func(t *testing.T) {
		require.NoError(t, fs.Save(ctx, "2025-03-14/invoice-INV-2025-001.pdf", []byte("%PDF")))
		assert.FileExists(t, filepath.Join(dir, "2025-03-14", "invoice-INV-2025-001.pdf"))
		assert.NoFileExists(t, filepath.Join(dir, "2025-03-14", "invoice-INV-2025-001.pdf.tmp"))
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		require.NoError(t, fs.Save(ctx, "a.pdf", []byte("original")))
		require.NoError(t, fs.Save(ctx, "a.pdf", []byte("updated")))
		content, err := fs.Read(ctx, "a.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("updated"), content)
	})

	t.Run("exists", func(t *testing.T) {
		assert.True(t, fs.Exists(ctx, "a.pdf"))
		assert.False(t, fs.Exists(ctx, "missing.pdf"))
	})
}

func TestLocalFileStorage_RejectsEscapes(t *testing.T) {
	ctx := context.Background()
	fs := NewLocalFileStorage(t.TempDir(), zap.NewNop())

	tests := []string{"../outside.pdf", "a/../../outside.pdf", "."}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			err := fs.Save(ctx, path, []byte("x"))
			assert.True(t, errors.Is(err, ErrPathEscapes))
			_, err = fs.Read(ctx, path)
			assert.True(t, errors.Is(err, ErrPathEscapes))
			assert.False(t, fs.Exists(ctx, path))
		})
	}
}

func TestLocalFileStorage_List(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs := NewLocalFileStorage(dir, zap.NewNop())

	require.NoError(t, fs.Save(ctx, "2025-03-13/invoice-INV-2025-001.pdf", []byte("one")))
	require.NoError(t, fs.Save(ctx, "2025-03-14/invoice-INV-2025-002.pdf", []byte("two!")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "2025-03-13", "invoice-INV-2025-001.pdf"), old, old))

	entries, err := fs.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2025-03-14/invoice-INV-2025-002.pdf", entries[0].Path)
	assert.Equal(t, int64(4), entries[0].Size)
	assert.Equal(t, "2025-03-13/invoice-INV-2025-001.pdf", entries[1].Path)
}

func TestLocalFileStorage_ListMissingDir(t *testing.T) {
	fs := NewLocalFileStorage(filepath.Join(t.TempDir(), "never-created"), zap.NewNop())
	entries, err := fs.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
