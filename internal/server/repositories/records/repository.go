package records

import (
	"context"
	"time"

	"github.com/kasku-app/kasku/internal/server/models"
)

// Repository describes server-side storage for synced ledger records.
// Upserts are keyed by the client-generated id, which makes a replayed
// push a no-op; deltas are keyed by updated_at.
type Repository interface {
	// UpsertMenu inserts or fully replaces a menu row. Returns
	// common.ErrCompanyConflict when the id exists under another company.
	UpsertMenu(ctx context.Context, row *models.MenuRow) error

	// UpsertTransaction inserts or fully replaces a transaction row.
	UpsertTransaction(ctx context.Context, row *models.TransactionRow) error

	// SelectMenusSince returns every menu row (tombstones included) with
	// updated_at >= since, ascending by updated_at then id.
	SelectMenusSince(ctx context.Context, companyID string, since time.Time) ([]*models.MenuRow, error)

	// SelectTransactionsSince is the transaction counterpart of
	// SelectMenusSince.
	SelectTransactionsSince(ctx context.Context, companyID string, since time.Time) ([]*models.TransactionRow, error)
}
