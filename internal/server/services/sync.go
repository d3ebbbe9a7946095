package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kasku-app/kasku/internal/common"
	"github.com/kasku-app/kasku/internal/dbx"
	"github.com/kasku-app/kasku/internal/server/models"
	"github.com/kasku-app/kasku/internal/server/repositories/companies"
	"github.com/kasku-app/kasku/internal/server/repositories/records"
	"github.com/kasku-app/kasku/internal/syncapi"
)

// SyncService applies pushed batches and computes pull deltas for one
// company's shared store.
type SyncService struct {
	db          *sql.DB
	companyRepo companies.Repository
	newRecords  func(db dbx.DBTX) records.Repository
	now         func() time.Time
}

// NewSyncService constructs a SyncService. Repositories are rebound per
// call so the push batch can run on a transaction handle.
func NewSyncService(db *sql.DB, companyRepo companies.Repository) *SyncService {
	return &SyncService{
		db:          db,
		companyRepo: companyRepo,
		newRecords:  func(db dbx.DBTX) records.Repository { return records.NewPostgresRepository(db) },
		now:         time.Now,
	}
}

func (s *SyncService) authorize(ctx context.Context, companyID, userID string) error {
	member, err := s.companyRepo.IsMember(ctx, companyID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return common.ErrNotMemberOfCompany
	}
	return nil
}

// Push upserts every row of the batch inside one transaction, stamping all
// touched rows with a single server clock value. Replaying the same push is
// a no-op apart from the fresh timestamp.
func (s *SyncService) Push(ctx context.Context, userID string, req *syncapi.PushRequest) (*syncapi.PushResponse, error) {
	if err := s.authorize(ctx, req.CompanyID, userID); err != nil {
		return nil, err
	}

	serverTime := s.now().UTC().Truncate(time.Microsecond)
	var stats syncapi.PushStats

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRecords(tx)

		for _, c := range req.Changes.Menus {
			row := menuRowFromChange(req.CompanyID, c, serverTime)
			if err := repo.UpsertMenu(ctx, row); err != nil {
				return fmt.Errorf("menu %s: %w", c.ID, err)
			}
			stats.Menus++
		}
		for _, c := range req.Changes.Transactions {
			row := transactionRowFromChange(req.CompanyID, c, serverTime)
			if err := repo.UpsertTransaction(ctx, row); err != nil {
				return fmt.Errorf("transaction %s: %w", c.ID, err)
			}
			stats.Transactions++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply push: %w", err)
	}

	return &syncapi.PushResponse{OK: true, ServerTime: serverTime, Stats: stats}, nil
}

// Pull returns the delta since the watermark: every row, tombstones
// included, with updated_at >= since. Pulling twice with the same since
// yields the same set.
func (s *SyncService) Pull(ctx context.Context, userID, companyID string, since time.Time) (*syncapi.PullResponse, error) {
	if err := s.authorize(ctx, companyID, userID); err != nil {
		return nil, err
	}

	repo := s.newRecords(s.db)

	menuRows, err := repo.SelectMenusSince(ctx, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select menu delta: %w", err)
	}
	txRows, err := repo.SelectTransactionsSince(ctx, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select transaction delta: %w", err)
	}

	resp := &syncapi.PullResponse{
		OK:         true,
		ServerTime: s.now().UTC().Truncate(time.Microsecond),
	}
	for _, row := range menuRows {
		resp.Menus = append(resp.Menus, menuChangeFromRow(row))
	}
	for _, row := range txRows {
		resp.Transactions = append(resp.Transactions, transactionChangeFromRow(row))
	}
	return resp, nil
}

func menuRowFromChange(companyID string, c syncapi.MenuChange, serverTime time.Time) *models.MenuRow {
	return &models.MenuRow{
		ID:         c.ID,
		CompanyID:  companyID,
		Name:       c.Name,
		Price:      c.Price,
		Category:   c.Category,
		OccurredAt: c.OccurredAt.UTC(),
		UpdatedAt:  serverTime,
		DeletedAt:  normalizeNullTime(c.DeletedAt),
	}
}

func transactionRowFromChange(companyID string, c syncapi.TransactionChange, serverTime time.Time) *models.TransactionRow {
	return &models.TransactionRow{
		ID:         c.ID,
		CompanyID:  companyID,
		Name:       c.Name,
		Type:       c.Type,
		Amount:     c.Amount,
		Quantity:   c.Quantity,
		UnitPrice:  c.UnitPrice,
		MenuID:     c.MenuID,
		OccurredAt: c.OccurredAt.UTC(),
		UpdatedAt:  serverTime,
		DeletedAt:  normalizeNullTime(c.DeletedAt),
	}
}

func menuChangeFromRow(row *models.MenuRow) syncapi.MenuChange {
	return syncapi.MenuChange{
		ID:         row.ID,
		Name:       row.Name,
		Price:      row.Price,
		Category:   row.Category,
		OccurredAt: row.OccurredAt,
		UpdatedAt:  row.UpdatedAt,
		DeletedAt:  row.DeletedAt,
	}
}

func transactionChangeFromRow(row *models.TransactionRow) syncapi.TransactionChange {
	return syncapi.TransactionChange{
		ID:         row.ID,
		Name:       row.Name,
		Type:       row.Type,
		Amount:     row.Amount,
		Quantity:   row.Quantity,
		UnitPrice:  row.UnitPrice,
		MenuID:     row.MenuID,
		OccurredAt: row.OccurredAt,
		UpdatedAt:  row.UpdatedAt,
		DeletedAt:  row.DeletedAt,
	}
}

func normalizeNullTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
