package mirror

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kasku-app/kasku/internal/client/models"
	"github.com/kasku-app/kasku/internal/client/repositories/legacy"
	"github.com/kasku-app/kasku/internal/client/repositories/menus"
	"github.com/kasku-app/kasku/internal/common"
	"github.com/kasku-app/kasku/internal/dbx"
)

// Applier projects pulled transactions into the legacy tables. All writes
// for one batch run inside a single transaction: either the whole legacy
// projection lands, or none of it does.
type Applier struct {
	db *sql.DB
}

// NewApplier returns an Applier over the local database.
func NewApplier(db *sql.DB) *Applier {
	return &Applier{db: db}
}

// ApplyBatch mirrors one pulled batch of transactions.
func (a *Applier) ApplyBatch(ctx context.Context, batch []*models.Transaction) error {
	if len(batch) == 0 {
		return nil
	}
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		legacyRepo := legacy.NewSQLiteRepository(tx)
		menuRepo := menus.NewSQLiteRepository(tx)

		for _, t := range batch {
			if err := a.applyOne(ctx, legacyRepo, menuRepo, t); err != nil {
				return fmt.Errorf("failed to mirror transaction %s: %w", t.ID, err)
			}
		}
		return nil
	})
}

func (a *Applier) applyOne(ctx context.Context, legacyRepo legacy.Repository, menuRepo menus.Repository, t *models.Transaction) error {
	mapping, err := legacyRepo.GetMapping(ctx, t.ID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	var menu *models.Menu
	if t.MenuID != nil {
		menu, err = menuRepo.GetByID(ctx, *t.MenuID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		// A dangling reference demotes the line to free-text; menu stays nil.
	}

	op := Project(t, mapping, menu)
	switch op.Kind {
	case OpNone:
		return nil
	case OpInsert:
		rowID, err := legacyRepo.InsertEntry(ctx, op.Table, &op.Entry)
		if err != nil {
			return err
		}
		return legacyRepo.SaveMapping(ctx, &models.RemoteIDMap{
			RecordID:    op.RecordID,
			LegacyTable: op.Table,
			LegacyRowID: rowID,
		})
	case OpUpdate:
		return legacyRepo.UpdateEntry(ctx, op.Table, op.RowID, &op.Entry)
	case OpDelete:
		if err := legacyRepo.DeleteEntry(ctx, op.Table, op.RowID); err != nil {
			return err
		}
		return legacyRepo.DeleteMapping(ctx, op.RecordID)
	default:
		return fmt.Errorf("unknown mirror op %d", op.Kind)
	}
}
