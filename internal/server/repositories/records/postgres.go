// Package records provides the PostgreSQL-backed repository for server-side
// ledger record persistence and sync delta queries.
package records

import (
	"context"
	"fmt"
	"time"

	"github.com/kasku-app/kasku/internal/common"
	"github.com/kasku-app/kasku/internal/dbx"
	"github.com/kasku-app/kasku/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// UpsertMenu replaces the row field-by-field; soft deletes arrive as an
// ordinary deleted_at value and are stored, never removed. The company
// guard means a conflicting id owned by another company updates nothing.
func (r *PostgresRepository) UpsertMenu(ctx context.Context, row *models.MenuRow) error {
	query := `
		INSERT INTO menus (id, company_id, name, price, category, occurred_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			occurred_at = EXCLUDED.occurred_at,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
			WHERE menus.company_id = EXCLUDED.company_id;
	`
	res, err := r.db.ExecContext(ctx, query,
		row.ID, row.CompanyID, row.Name, row.Price, row.Category,
		row.OccurredAt, row.UpdatedAt, row.DeletedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrCompanyConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) UpsertTransaction(ctx context.Context, row *models.TransactionRow) error {
	query := `
		INSERT INTO transactions (id, company_id, name, type, amount, quantity, unit_price, menu_id, occurred_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			amount = EXCLUDED.amount,
			quantity = EXCLUDED.quantity,
			unit_price = EXCLUDED.unit_price,
			menu_id = EXCLUDED.menu_id,
			occurred_at = EXCLUDED.occurred_at,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
			WHERE transactions.company_id = EXCLUDED.company_id;
	`
	res, err := r.db.ExecContext(ctx, query,
		row.ID, row.CompanyID, row.Name, row.Type, row.Amount, row.Quantity,
		row.UnitPrice, row.MenuID, row.OccurredAt, row.UpdatedAt, row.DeletedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrCompanyConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// SelectMenusSince orders ascending by updated_at (id breaks ties) so a
// client that only partially applies a large delta resumes from a
// consistent point on retry.
func (r *PostgresRepository) SelectMenusSince(ctx context.Context, companyID string, since time.Time) ([]*models.MenuRow, error) {
	query := `SELECT id, company_id, name, price, category, occurred_at, updated_at, deleted_at
		FROM menus WHERE company_id=$1 AND updated_at>=$2
		ORDER BY updated_at, id`
	rows, err := r.db.QueryContext(ctx, query, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select menus: %w", err)
	}
	defer rows.Close()

	var result []*models.MenuRow
	for rows.Next() {
		var item models.MenuRow
		if err := rows.Scan(&item.ID, &item.CompanyID, &item.Name, &item.Price, &item.Category,
			&item.OccurredAt, &item.UpdatedAt, &item.DeletedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) SelectTransactionsSince(ctx context.Context, companyID string, since time.Time) ([]*models.TransactionRow, error) {
	query := `SELECT id, company_id, name, type, amount, quantity, unit_price, menu_id, occurred_at, updated_at, deleted_at
		FROM transactions WHERE company_id=$1 AND updated_at>=$2
		ORDER BY updated_at, id`
	rows, err := r.db.QueryContext(ctx, query, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	var result []*models.TransactionRow
	for rows.Next() {
		var item models.TransactionRow
		if err := rows.Scan(&item.ID, &item.CompanyID, &item.Name, &item.Type, &item.Amount,
			&item.Quantity, &item.UnitPrice, &item.MenuID, &item.OccurredAt, &item.UpdatedAt, &item.DeletedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
