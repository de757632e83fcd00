package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteStorage_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "expensive.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.FileExists(t, dbPath)
	assert.Equal(t, dbPath, store.Path())
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage(" ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	require.NoError(t, store.Migrate(ctx), "migrating twice is a no-op")

	var tables int
	err = store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name IN ('kv_store', 'checkpoint_metadata')
	`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)
}

func TestSQLiteStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	first, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Migrate(ctx))
	require.NoError(t, first.Set(ctx, KeyExpenses, []byte(`[{"id":"x"}]`)))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()
	require.NoError(t, second.Migrate(ctx))

	got, err := second.Get(ctx, KeyExpenses)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"x"}]`, string(got))
}
