package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kasku-app/kasku/internal/client/models"
	"github.com/kasku-app/kasku/internal/common"
	"github.com/kasku-app/kasku/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `id, name, type, amount, quantity, unit_price, menu_id, occurred_at, created_at, updated_at, deleted_at, dirty`

func (r *SQLiteRepository) Insert(ctx context.Context, t *models.Transaction) error {
	query := `INSERT INTO transactions (id, name, type, amount, quantity, unit_price, menu_id, occurred_at, created_at, updated_at, deleted_at, dirty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Name, t.Type, t.Amount, t.Quantity, t.UnitPrice, t.MenuID,
		models.TimeToDB(t.OccurredAt), models.TimeToDB(t.CreatedAt), models.TimeToDB(t.UpdatedAt),
		models.NullTimeToDB(t.DeletedAt), t.Dirty)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, t *models.Transaction) error {
	query := `UPDATE transactions SET name=?, type=?, amount=?, quantity=?, unit_price=?, menu_id=?, occurred_at=?, updated_at=?, dirty=1 WHERE id=?`
	res, err := r.db.ExecContext(ctx, query,
		t.Name, t.Type, t.Amount, t.Quantity, t.UnitPrice, t.MenuID,
		models.TimeToDB(t.OccurredAt), models.TimeToDB(t.UpdatedAt), t.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) MarkDeleted(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE transactions SET deleted_at=?, updated_at=?, dirty=1 WHERE id=? AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, models.TimeToDB(at), models.TimeToDB(at), id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE id=?`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListActive(ctx context.Context) ([]models.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE deleted_at IS NULL ORDER BY occurred_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	var result []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) SelectDirty(ctx context.Context) ([]*models.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE dirty=1`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select dirty transactions: %w", err)
	}
	defer rows.Close()

	var result []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, ids []string, serverTime time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, models.TimeToDB(serverTime))
	for _, id := range ids {
		args = append(args, id)
	}
	query := fmt.Sprintf(`UPDATE transactions SET dirty=0, updated_at=? WHERE id IN (%s)`,
		placeholders(len(ids)))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark transactions synced: %w", err)
	}
	return nil
}

// ApplyRemote fully replaces the local row with the pulled one, skipping
// rows that went dirty again since the push phase of this cycle.
func (r *SQLiteRepository) ApplyRemote(ctx context.Context, t *models.Transaction) error {
	query := `INSERT INTO transactions (id, name, type, amount, quantity, unit_price, menu_id, occurred_at, created_at, updated_at, deleted_at, dirty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			amount = excluded.amount,
			quantity = excluded.quantity,
			unit_price = excluded.unit_price,
			menu_id = excluded.menu_id,
			occurred_at = excluded.occurred_at,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at,
			dirty = 0
		WHERE transactions.dirty = 0`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Name, t.Type, t.Amount, t.Quantity, t.UnitPrice, t.MenuID,
		models.TimeToDB(t.OccurredAt), models.TimeToDB(t.CreatedAt), models.TimeToDB(t.UpdatedAt),
		models.NullTimeToDB(t.DeletedAt))
	if err != nil {
		return fmt.Errorf("failed to apply pulled transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		t          models.Transaction
		occurredAt string
		createdAt  string
		updatedAt  string
		deletedAt  *string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Type, &t.Amount, &t.Quantity, &t.UnitPrice, &t.MenuID,
		&occurredAt, &createdAt, &updatedAt, &deletedAt, &t.Dirty); err != nil {
		return nil, err
	}

	var err error
	if t.OccurredAt, err = models.TimeFromDB(occurredAt); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = models.TimeFromDB(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = models.TimeFromDB(updatedAt); err != nil {
		return nil, err
	}
	if t.DeletedAt, err = models.NullTimeFromDB(deletedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
