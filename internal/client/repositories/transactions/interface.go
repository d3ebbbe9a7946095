package transactions

import (
	"context"
	"time"

	"github.com/kasku-app/kasku/internal/client/models"
)

// Repository describes storage operations for transactions in the unified
// ledger. Semantics match the menus repository: tombstones stay queryable
// by id, active listings exclude them, the dirty bit drives the push set.
type Repository interface {
	Insert(ctx context.Context, t *models.Transaction) error
	Update(ctx context.Context, t *models.Transaction) error
	MarkDeleted(ctx context.Context, id string, at time.Time) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	ListActive(ctx context.Context) ([]models.Transaction, error)
	SelectDirty(ctx context.Context) ([]*models.Transaction, error)
	MarkSynced(ctx context.Context, ids []string, serverTime time.Time) error
	ApplyRemote(ctx context.Context, t *models.Transaction) error
}
