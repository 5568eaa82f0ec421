package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlinks/internal/storage"
)

func openSQLite(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	s, err := storage.OpenSQLite(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStorage(t *testing.T) {
	runBackendSuite(t, func(t *testing.T) backend {
		return openSQLite(t)
	})
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.db")
	ctx := context.Background()

	s, err := storage.OpenSQLite(path, zap.NewNop())
	require.NoError(t, err)

	link := newLink("keep01", uuid.NullUUID{}, base)
	require.NoError(t, s.CreateLink(ctx, link))
	require.NoError(t, s.Close())

	reopened, err := storage.OpenSQLite(path, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	found, err := reopened.FindActiveByShortCode(ctx, "keep01")
	require.NoError(t, err)
	assert.Equal(t, link.ID, found.ID)
	assert.Equal(t, "https://example.com/keep01", found.OriginalURL)
}

func TestSQLiteStorage_MigrateIsIdempotent(t *testing.T) {
	s := openSQLite(t)
	assert.NoError(t, s.Migrate())
	assert.NoError(t, s.Migrate())
}

func TestSQLiteStorage_EmptyBatch(t *testing.T) {
	s := openSQLite(t)
	assert.NoError(t, s.AppendAccessLogs(context.Background(), nil))
}
