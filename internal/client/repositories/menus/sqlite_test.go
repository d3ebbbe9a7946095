package menus

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/kasku-app/kasku/internal/client/models"
	"github.com/kasku-app/kasku/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE menus (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price INTEGER NOT NULL DEFAULT 0,
  category TEXT NOT NULL DEFAULT '',
  occurred_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  deleted_at TEXT,
  dirty INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)

	return db
}

func testMenu(id string) *models.Menu {
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &models.Menu{
		ID:         id,
		Name:       "Nasi Goreng",
		Price:      25000,
		Category:   "food",
		OccurredAt: ts,
		CreatedAt:  ts,
		UpdatedAt:  ts,
		Dirty:      true,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	m := testMenu("m1")
	require.NoError(t, r.Insert(ctx, m))

	got, err := r.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Nasi Goreng", got.Name)
	assert.Equal(t, int64(25000), got.Price)
	assert.Equal(t, "food", got.Category)
	assert.True(t, got.Dirty)
	assert.Nil(t, got.DeletedAt)
	assert.True(t, got.UpdatedAt.Equal(m.UpdatedAt))
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_SetsDirty(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	m := testMenu("m1")
	require.NoError(t, r.Insert(ctx, m))

	// Simulate a synced row first.
	require.NoError(t, r.MarkSynced(ctx, []string{"m1"}, m.UpdatedAt))
	got, err := r.GetByID(ctx, "m1")
	require.NoError(t, err)
	require.False(t, got.Dirty)

	got.Name = "Nasi Goreng Spesial"
	got.UpdatedAt = got.UpdatedAt.Add(time.Minute)
	require.NoError(t, r.Update(ctx, got))

	got2, err := r.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Nasi Goreng Spesial", got2.Name)
	assert.True(t, got2.Dirty, "update must set the dirty bit")
}

func TestUpdate_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	err := r.Update(context.Background(), testMenu("missing"))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMarkDeleted(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	m := testMenu("m1")
	require.NoError(t, r.Insert(ctx, m))

	at := m.UpdatedAt.Add(time.Hour)
	require.NoError(t, r.MarkDeleted(ctx, "m1", at))

	// Tombstone stays readable by id.
	got, err := r.GetByID(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)
	assert.True(t, got.DeletedAt.Equal(at))
	assert.True(t, got.UpdatedAt.Equal(at))
	assert.True(t, got.Dirty)

	// Deleting a tombstone again is not found.
	err = r.MarkDeleted(ctx, "m1", at.Add(time.Minute))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListActive_ExcludesTombstones(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	a := testMenu("a")
	a.Name = "Ayam Bakar"
	b := testMenu("b")
	b.Name = "Es Teh"
	c := testMenu("c")
	c.Name = "Kopi"
	require.NoError(t, r.Insert(ctx, a))
	require.NoError(t, r.Insert(ctx, b))
	require.NoError(t, r.Insert(ctx, c))
	require.NoError(t, r.MarkDeleted(ctx, "c", time.Now()))

	got, err := r.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ayam Bakar", got[0].Name)
	assert.Equal(t, "Es Teh", got[1].Name)
}

func TestSelectDirtyAndMarkSynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, testMenu("a")))
	require.NoError(t, r.Insert(ctx, testMenu("b")))
	require.NoError(t, r.Insert(ctx, testMenu("c")))

	dirty, err := r.SelectDirty(ctx)
	require.NoError(t, err)
	require.Len(t, dirty, 3)

	// Only the named ids are cleared; c stays dirty.
	serverTime := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.MarkSynced(ctx, []string{"a", "b"}, serverTime))

	dirty, err = r.SelectDirty(ctx)
	require.NoError(t, err)
	require.Len(t, dirty, 1)
	assert.Equal(t, "c", dirty[0].ID)

	// Synced rows carry the server clock as their new baseline.
	got, err := r.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.Equal(serverTime))
}

func TestMarkSynced_EmptyIDs(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	require.NoError(t, r.MarkSynced(context.Background(), nil, time.Now()))
}

func TestApplyRemote_InsertsNewRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	m := testMenu("m1")
	m.Dirty = true // ignored: pulled rows always land clean
	require.NoError(t, r.ApplyRemote(ctx, m))

	got, err := r.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, got.Dirty)
	assert.Equal(t, "Nasi Goreng", got.Name)
}

func TestApplyRemote_OverwritesCleanRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	m := testMenu("m1")
	require.NoError(t, r.Insert(ctx, m))
	require.NoError(t, r.MarkSynced(ctx, []string{"m1"}, m.UpdatedAt))

	remote := testMenu("m1")
	remote.Name = "Nasi Goreng v2"
	remote.Price = 27000
	remote.UpdatedAt = m.UpdatedAt.Add(time.Hour)
	require.NoError(t, r.ApplyRemote(ctx, remote))

	got, err := r.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Nasi Goreng v2", got.Name)
	assert.Equal(t, int64(27000), got.Price)
	assert.False(t, got.Dirty)
}

func TestApplyRemote_SkipsDirtyRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	m := testMenu("m1")
	require.NoError(t, r.Insert(ctx, m)) // dirty from insert

	remote := testMenu("m1")
	remote.Name = "Server Name"
	require.NoError(t, r.ApplyRemote(ctx, remote))

	got, err := r.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Nasi Goreng", got.Name, "dirty row must not be overwritten")
	assert.True(t, got.Dirty)
}

func TestApplyRemote_Tombstone(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	m := testMenu("m1")
	require.NoError(t, r.Insert(ctx, m))
	require.NoError(t, r.MarkSynced(ctx, []string{"m1"}, m.UpdatedAt))

	deletedAt := m.UpdatedAt.Add(time.Hour)
	remote := testMenu("m1")
	remote.UpdatedAt = deletedAt
	remote.DeletedAt = &deletedAt
	require.NoError(t, r.ApplyRemote(ctx, remote))

	got, err := r.GetByID(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)

	active, err := r.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}
