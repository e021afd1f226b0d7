package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridewell/rematch/internal/common"
	"github.com/ridewell/rematch/internal/model"
)

func testStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStorage_StateRoundTrip(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	_, err := store.LoadState(ctx, "lead")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.SaveState(ctx, "lead", []byte(`{"kind":"lead","source_id":"L1"}`)))

	got, err := store.LoadState(ctx, "lead")
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"lead","source_id":"L1"}`, string(got))

	// Kinds are independent sessions.
	_, err = store.LoadState(ctx, "transaction")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_SaveStateReplaces(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveState(ctx, "lead", []byte(`{"kind":"lead","source_id":"L1"}`)))
	require.NoError(t, store.SaveState(ctx, "lead", []byte(`{"kind":"lead"}`)))

	got, err := store.LoadState(ctx, "lead")
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"lead"}`, string(got))
}

func TestSQLiteStorage_SaveStateEmptyKind(t *testing.T) {
	store := testStorage(t)
	err := store.SaveState(context.Background(), "", []byte(`{}`))
	assert.Error(t, err)
}

func TestSQLiteStorage_DriverPoolRoundTrip(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	_, err := store.LoadDriverPool(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)

	pool := []model.Driver{
		{ID: "D1", FullName: "Ana Silva", Phone: "5215512345678",
			HireDate: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "D2", FullName: "Juan Perez", LicenseNumber: "LIC-9"},
	}
	require.NoError(t, store.SaveDriverPool(ctx, pool))

	got, err := store.LoadDriverPool(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ana Silva", got[0].FullName)
	assert.True(t, got[0].HireDate.Equal(pool[0].HireDate))
	assert.Equal(t, "LIC-9", got[1].LicenseNumber)

	// A later aggregation replaces the cached pool wholesale.
	require.NoError(t, store.SaveDriverPool(ctx, pool[:1]))
	got, err = store.LoadDriverPool(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteStorage_MigrateIsIdempotent(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "session.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.SaveState(ctx, "registration", []byte(`{"kind":"registration"}`)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.Migrate(ctx))

	got, err := reopened.LoadState(ctx, "registration")
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"registration"}`, string(got))
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)
}
