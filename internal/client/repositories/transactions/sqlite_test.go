package transactions

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
CREATE TABLE transactions (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  amount INTEGER NOT NULL DEFAULT 0,
  quantity INTEGER NOT NULL DEFAULT 1,
  unit_price INTEGER NOT NULL DEFAULT 0,
  menu_id TEXT,
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

func testTransaction(id string, occurredAt time.Time) *models.Transaction {
	return &models.Transaction{
		ID:         id,
		Name:       "Sale",
		Type:       "income",
		Amount:     50000,
		Quantity:   2,
		UnitPrice:  25000,
		OccurredAt: occurredAt,
		CreatedAt:  occurredAt,
		UpdatedAt:  occurredAt,
		Dirty:      true,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	menuID := "menu-1"
	tx := testTransaction("t1", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	tx.MenuID = &menuID
	require.NoError(t, r.Insert(ctx, tx))

	got, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "income", got.Type)
	assert.Equal(t, int64(50000), got.Amount)
	assert.Equal(t, int64(2), got.Quantity)
	require.NotNil(t, got.MenuID)
	assert.Equal(t, "menu-1", *got.MenuID)
	assert.True(t, got.Dirty)
}

func TestInsert_NilMenuID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	tx := testTransaction("t1", time.Now().UTC())
	require.NoError(t, r.Insert(ctx, tx))

	got, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got.MenuID)
}

func TestUpdate_ClearsMenuLink(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	menuID := "menu-1"
	tx := testTransaction("t1", time.Now().UTC())
	tx.MenuID = &menuID
	require.NoError(t, r.Insert(ctx, tx))

	tx.MenuID = nil
	require.NoError(t, r.Update(ctx, tx))

	got, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got.MenuID)
	assert.True(t, got.Dirty)
}

func TestUpdate_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	err := r.Update(context.Background(), testTransaction("missing", time.Now().UTC()))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMarkDeleted_TombstoneStaysReadable(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, testTransaction("t1", ts)))

	at := ts.Add(time.Hour)
	require.NoError(t, r.MarkDeleted(ctx, "t1", at))

	got, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)
	assert.True(t, got.DeletedAt.Equal(at))

	err = r.MarkDeleted(ctx, "t1", at.Add(time.Minute))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListActive_NewestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, testTransaction("old", base)))
	require.NoError(t, r.Insert(ctx, testTransaction("new", base.Add(time.Hour))))
	require.NoError(t, r.Insert(ctx, testTransaction("gone", base.Add(2*time.Hour))))
	require.NoError(t, r.MarkDeleted(ctx, "gone", base.Add(3*time.Hour)))

	got, err := r.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "old", got[1].ID)
}

func TestSelectDirtyAndMarkSynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, testTransaction("a", ts)))
	require.NoError(t, r.Insert(ctx, testTransaction("b", ts)))

	serverTime := ts.Add(time.Minute)
	require.NoError(t, r.MarkSynced(ctx, []string{"a"}, serverTime))

	dirty, err := r.SelectDirty(ctx)
	require.NoError(t, err)
	require.Len(t, dirty, 1)
	assert.Equal(t, "b", dirty[0].ID)

	got, err := r.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.False(t, got.Dirty)
	assert.True(t, got.UpdatedAt.Equal(serverTime))
}

func TestApplyRemote_UpsertAndDirtyGuard(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// New row lands clean.
	remote := testTransaction("t1", ts)
	require.NoError(t, r.ApplyRemote(ctx, remote))
	got, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, got.Dirty)

	// Clean row is fully replaced.
	remote.Amount = 75000
	remote.UpdatedAt = ts.Add(time.Hour)
	require.NoError(t, r.ApplyRemote(ctx, remote))
	got, err = r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(75000), got.Amount)

	// Dirty row is left alone.
	got.Amount = 99999
	got.UpdatedAt = ts.Add(2 * time.Hour)
	require.NoError(t, r.Update(ctx, got))

	remote.Amount = 11111
	require.NoError(t, r.ApplyRemote(ctx, remote))
	got, err = r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(99999), got.Amount, "dirty row must not be overwritten")
	assert.True(t, got.Dirty)
}
