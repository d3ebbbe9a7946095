package menus

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

func (r *SQLiteRepository) Insert(ctx context.Context, m *models.Menu) error {
	query := `INSERT INTO menus (id, name, price, category, occurred_at, created_at, updated_at, deleted_at, dirty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.Name, m.Price, m.Category,
		models.TimeToDB(m.OccurredAt), models.TimeToDB(m.CreatedAt), models.TimeToDB(m.UpdatedAt),
		models.NullTimeToDB(m.DeletedAt), m.Dirty)
	if err != nil {
		return fmt.Errorf("failed to insert menu: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, m *models.Menu) error {
	query := `UPDATE menus SET name=?, price=?, category=?, occurred_at=?, updated_at=?, dirty=1 WHERE id=?`
	res, err := r.db.ExecContext(ctx, query,
		m.Name, m.Price, m.Category, models.TimeToDB(m.OccurredAt), models.TimeToDB(m.UpdatedAt), m.ID)
	if err != nil {
		return fmt.Errorf("failed to update menu: %w", err)
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
	query := `UPDATE menus SET deleted_at=?, updated_at=?, dirty=1 WHERE id=? AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, models.TimeToDB(at), models.TimeToDB(at), id)
	if err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
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

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Menu, error) {
	query := `SELECT id, name, price, category, occurred_at, created_at, updated_at, deleted_at, dirty
		FROM menus WHERE id=?`
	m, err := scanMenu(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select menu: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) ListActive(ctx context.Context) ([]models.Menu, error) {
	query := `SELECT id, name, price, category, occurred_at, created_at, updated_at, deleted_at, dirty
		FROM menus WHERE deleted_at IS NULL ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select menus: %w", err)
	}
	defer rows.Close()

	var result []models.Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) SelectDirty(ctx context.Context) ([]*models.Menu, error) {
	query := `SELECT id, name, price, category, occurred_at, created_at, updated_at, deleted_at, dirty
		FROM menus WHERE dirty=1`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select dirty menus: %w", err)
	}
	defer rows.Close()

	var result []*models.Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
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
	query := fmt.Sprintf(`UPDATE menus SET dirty=0, updated_at=? WHERE id IN (%s)`,
		placeholders(len(ids)))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark menus synced: %w", err)
	}
	return nil
}

// ApplyRemote fully replaces the local row with the pulled one. The
// dirty guard keeps a concurrently edited row out of reach: push precedes
// pull in a cycle, so anything still dirty here was edited mid-flight.
func (r *SQLiteRepository) ApplyRemote(ctx context.Context, m *models.Menu) error {
	query := `INSERT INTO menus (id, name, price, category, occurred_at, created_at, updated_at, deleted_at, dirty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			price = excluded.price,
			category = excluded.category,
			occurred_at = excluded.occurred_at,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at,
			dirty = 0
		WHERE menus.dirty = 0`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.Name, m.Price, m.Category,
		models.TimeToDB(m.OccurredAt), models.TimeToDB(m.CreatedAt), models.TimeToDB(m.UpdatedAt),
		models.NullTimeToDB(m.DeletedAt))
	if err != nil {
		return fmt.Errorf("failed to apply pulled menu: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMenu(row rowScanner) (*models.Menu, error) {
	var (
		m          models.Menu
		occurredAt string
		createdAt  string
		updatedAt  string
		deletedAt  *string
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Price, &m.Category,
		&occurredAt, &createdAt, &updatedAt, &deletedAt, &m.Dirty); err != nil {
		return nil, err
	}

	var err error
	if m.OccurredAt, err = models.TimeFromDB(occurredAt); err != nil {
		return nil, err
	}
	if m.CreatedAt, err = models.TimeFromDB(createdAt); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = models.TimeFromDB(updatedAt); err != nil {
		return nil, err
	}
	if m.DeletedAt, err = models.NullTimeFromDB(deletedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
