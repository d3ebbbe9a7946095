package menus

import (
	"context"
	"time"

	"github.com/kasku-app/kasku/internal/client/models"
)

// Repository describes storage operations for menus in the unified ledger.
// Implementations are backed by the local SQLite database.
type Repository interface {
	// Insert stores a brand-new menu row.
	Insert(ctx context.Context, m *models.Menu) error

	// Update rewrites the mutable fields of an existing row.
	Update(ctx context.Context, m *models.Menu) error

	// MarkDeleted tombstones the row: deleted_at=updated_at=at, dirty=1.
	MarkDeleted(ctx context.Context, id string, at time.Time) error

	// GetByID returns the row regardless of its tombstone state.
	GetByID(ctx context.Context, id string) (*models.Menu, error)

	// ListActive returns all rows with deleted_at IS NULL.
	ListActive(ctx context.Context) ([]models.Menu, error)

	// SelectDirty returns all rows awaiting a push, tombstones included.
	SelectDirty(ctx context.Context) ([]*models.Menu, error)

	// MarkSynced clears the dirty bit and rewrites updated_at to the server
	// clock for exactly the given ids.
	MarkSynced(ctx context.Context, ids []string, serverTime time.Time) error

	// ApplyRemote upserts a pulled row, replacing every field. A row that is
	// locally dirty is left untouched so an edit made during the sync
	// round-trip is not lost to a stale pull value.
	ApplyRemote(ctx context.Context, m *models.Menu) error
}
