package persist

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stockroom/internal/inventory"
	"github.com/roach88/stockroom/internal/testutil"
)

func newSQLiteAdapter(t *testing.T) (*SQLiteAdapter, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.db")
	return NewSQLiteAdapter(path, slog.New(slog.DiscardHandler)), path
}

func TestSQLiteAdapter_RoundTrip(t *testing.T) {
	a, _ := newSQLiteAdapter(t)
	ctx := context.Background()

	records := append(testutil.Catalog(t), testutil.Record(t, 1, "Loveseat", 2, "299"))
	require.NoError(t, a.Save(ctx, records))

	got, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.Rows(records), testutil.Rows(got))
	assert.True(t, inventory.EqualRecords(records, got))
}

func TestSQLiteAdapter_SaveReplacesContent(t *testing.T) {
	a, _ := newSQLiteAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, testutil.Catalog(t)))
	require.NoError(t, a.Save(ctx, testutil.Catalog(t)[1:]))

	got, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2,Chair,10,89.5"}, testutil.Rows(got))

	require.NoError(t, a.Save(ctx, nil))
	got, err = a.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteAdapter_MissingFileIsNotCreated(t *testing.T) {
	a, path := newSQLiteAdapter(t)

	got, err := a.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSQLiteAdapter_SchemaVersion(t *testing.T) {
	a, path := newSQLiteAdapter(t)
	require.NoError(t, a.Save(context.Background(), testutil.Catalog(t)))

	db, err := openDB(path)
	require.NoError(t, err)
	defer db.Close()

	version, err := schemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)

	// Reopening is idempotent.
	db2, err := openDB(path)
	require.NoError(t, err)
	db2.Close()
}

func TestSQLiteAdapter_NotADatabase(t *testing.T) {
	a, path := newSQLiteAdapter(t)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 4096), 0o644))

	_, err := a.Load(context.Background())
	require.Error(t, err)
	assert.True(t, IsIOFailure(err))
}
