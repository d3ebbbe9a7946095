package legacy

import (
	"context"

	"github.com/kasku-app/kasku/internal/client/models"
)

// Repository describes storage operations for the legacy incomes/expenses
// tables and the remote-id map that links them to the unified ledger.
type Repository interface {
	// GetMapping returns the mapping for a unified record id, or
	// common.ErrNotFound if the record was never mirrored.
	GetMapping(ctx context.Context, recordID string) (*models.RemoteIDMap, error)

	// SaveMapping inserts or replaces the mapping for a record id.
	SaveMapping(ctx context.Context, m *models.RemoteIDMap) error

	// DeleteMapping removes the mapping for a record id, if any.
	DeleteMapping(ctx context.Context, recordID string) error

	// InsertEntry adds a legacy row and returns its auto-increment id.
	InsertEntry(ctx context.Context, table string, e *models.LegacyEntry) (int64, error)

	// UpdateEntry rewrites a legacy row in place.
	UpdateEntry(ctx context.Context, table string, rowID int64, e *models.LegacyEntry) error

	// DeleteEntry hard-deletes a legacy row. Legacy tables carry no
	// tombstones; the unified store keeps the record.
	DeleteEntry(ctx context.Context, table string, rowID int64) error

	// ListEntries returns all rows of one legacy table.
	ListEntries(ctx context.Context, table string) ([]models.LegacyEntry, error)
}
