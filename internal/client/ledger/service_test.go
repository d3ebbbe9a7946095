package ledger

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/kasku-app/kasku/internal/client/repositories/menus"
	"github.com/kasku-app/kasku/internal/client/repositories/transactions"
	"github.com/kasku-app/kasku/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupService(t *testing.T) (*Service, *sql.DB) {
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

	s := NewService(menus.NewSQLiteRepository(db), transactions.NewSQLiteRepository(db))
	return s, db
}

func TestCreateMenu(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	id, err := s.CreateMenu(ctx, CreateMenuParams{Name: "Bakso", Price: 15000, Category: "food"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	m, err := s.GetMenu(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bakso", m.Name)
	assert.True(t, m.Dirty, "new rows must be dirty")
	assert.True(t, m.CreatedAt.Equal(now))
	assert.True(t, m.UpdatedAt.Equal(now))
	assert.True(t, m.OccurredAt.Equal(now), "zero occurred_at defaults to now")
}

func TestCreateMenu_ExplicitOccurredAt(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	occurred := time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC)
	id, err := s.CreateMenu(ctx, CreateMenuParams{Name: "Bakso", OccurredAt: occurred})
	require.NoError(t, err)

	m, err := s.GetMenu(ctx, id)
	require.NoError(t, err)
	assert.True(t, m.OccurredAt.Equal(occurred))
}

func TestUpdateMenu_SparsePatch(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	id, err := s.CreateMenu(ctx, CreateMenuParams{Name: "Bakso", Price: 15000, Category: "food"})
	require.NoError(t, err)

	newPrice := int64(17000)
	require.NoError(t, s.UpdateMenu(ctx, id, MenuPatch{Price: &newPrice}))

	m, err := s.GetMenu(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bakso", m.Name, "unpatched fields stay")
	assert.Equal(t, int64(17000), m.Price)
	assert.True(t, m.Dirty)
}

func TestUpdateMenu_EmptyPatchStillDirties(t *testing.T) {
	s, db := setupService(t)
	ctx := context.Background()

	id, err := s.CreateMenu(ctx, CreateMenuParams{Name: "Bakso"})
	require.NoError(t, err)

	// Pretend the row was synced.
	_, err = db.Exec(`UPDATE menus SET dirty=0 WHERE id=?`, id)
	require.NoError(t, err)

	before, err := s.GetMenu(ctx, id)
	require.NoError(t, err)

	s.now = func() time.Time { return before.UpdatedAt.Add(time.Minute) }
	require.NoError(t, s.UpdateMenu(ctx, id, MenuPatch{}))

	after, err := s.GetMenu(ctx, id)
	require.NoError(t, err)
	assert.True(t, after.Dirty, "a no-op patch still dirties the row")
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestUpdateMenu_NotFound(t *testing.T) {
	s, _ := setupService(t)

	err := s.UpdateMenu(context.Background(), "missing", MenuPatch{})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteMenu(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	id, err := s.CreateMenu(ctx, CreateMenuParams{Name: "Bakso"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteMenu(ctx, id))

	// Out of active listings, still loadable by id.
	list, err := s.ListMenus(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	m, err := s.GetMenu(ctx, id)
	require.NoError(t, err)
	assert.True(t, m.Deleted())
	assert.True(t, m.Dirty)
}

func TestCreateTransaction(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	menuID := "menu-1"
	id, err := s.CreateTransaction(ctx, CreateTransactionParams{
		Name:      "Sale",
		Type:      "income",
		Amount:    30000,
		Quantity:  2,
		UnitPrice: 15000,
		MenuID:    &menuID,
	})
	require.NoError(t, err)

	tx, err := s.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "income", tx.Type)
	assert.Equal(t, int64(30000), tx.Amount)
	require.NotNil(t, tx.MenuID)
	assert.Equal(t, "menu-1", *tx.MenuID)
	assert.True(t, tx.Dirty)
}

func TestUpdateTransaction_UnlinkMenu(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	menuID := "menu-1"
	id, err := s.CreateTransaction(ctx, CreateTransactionParams{
		Name: "Sale", Type: "income", Amount: 10000, Quantity: 1, MenuID: &menuID,
	})
	require.NoError(t, err)

	// A double pointer distinguishes "set to nil" from "leave as is".
	var unset *string
	require.NoError(t, s.UpdateTransaction(ctx, id, TransactionPatch{MenuID: &unset}))

	tx, err := s.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, tx.MenuID)
}

func TestDeleteTransaction(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	id, err := s.CreateTransaction(ctx, CreateTransactionParams{Name: "Sale", Type: "expense", Amount: 5000})
	require.NoError(t, err)
	require.NoError(t, s.DeleteTransaction(ctx, id))

	list, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	tx, err := s.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.True(t, tx.Deleted())
}
