package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aanand-mishra/edu-admin-api/internal/storage"
	"github.com/aanand-mishra/edu-admin-api/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, path string, seed *storage.Seed) *SQLite {
	t.Helper()

	db, err := New(path, seed)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLite_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T, seed storage.Seed) storage.Storage {
		return newTestDB(t, filepath.Join(t.TempDir(), "test.db"), &seed)
	})
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	seed := storage.DefaultSeed()
	ctx := context.Background()

	first, err := New(path, &seed)
	require.NoError(t, err)
	require.NoError(t, first.DeleteUserByID(ctx, 1))
	require.NoError(t, first.Close())

	// Reopening must not reload the seed over existing data.
	second := newTestDB(t, path, &seed)
	users, err := second.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	_, err = second.GetUserByID(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSQLite_NoSeed(t *testing.T) {
	db := newTestDB(t, filepath.Join(t.TempDir(), "test.db"), nil)

	users, err := db.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}
