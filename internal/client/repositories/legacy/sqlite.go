package legacy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kasku-app/kasku/internal/client/models"
	"github.com/kasku-app/kasku/internal/common"
	"github.com/kasku-app/kasku/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx). The mirror applier always hands it a transactional handle so a
// whole pulled batch commits or rolls back as one unit.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// checkTable guards the table name interpolated into queries: only the two
// legacy tables are valid targets.
func checkTable(table string) error {
	if table != models.LegacyTableIncomes && table != models.LegacyTableExpenses {
		return fmt.Errorf("unknown legacy table %q", table)
	}
	return nil
}

func (r *SQLiteRepository) GetMapping(ctx context.Context, recordID string) (*models.RemoteIDMap, error) {
	query := `SELECT record_id, legacy_table, legacy_row_id FROM remote_id_map WHERE record_id=?`
	m := &models.RemoteIDMap{}
	err := r.db.QueryRowContext(ctx, query, recordID).Scan(&m.RecordID, &m.LegacyTable, &m.LegacyRowID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select mapping: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) SaveMapping(ctx context.Context, m *models.RemoteIDMap) error {
	query := `INSERT INTO remote_id_map (record_id, legacy_table, legacy_row_id) VALUES (?, ?, ?)
		ON CONFLICT(record_id) DO UPDATE SET legacy_table = excluded.legacy_table, legacy_row_id = excluded.legacy_row_id`
	if _, err := r.db.ExecContext(ctx, query, m.RecordID, m.LegacyTable, m.LegacyRowID); err != nil {
		return fmt.Errorf("failed to save mapping: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteMapping(ctx context.Context, recordID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM remote_id_map WHERE record_id=?`, recordID); err != nil {
		return fmt.Errorf("failed to delete mapping: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) InsertEntry(ctx context.Context, table string, e *models.LegacyEntry) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`INSERT INTO %s (name, quantity, unit_price, total, menu_ref, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)`, table)
	res, err := r.db.ExecContext(ctx, query,
		e.Name, e.Quantity, e.UnitPrice, e.Total, e.MenuRef, models.TimeToDB(e.OccurredAt))
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s row: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get %s row id: %w", table, err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateEntry(ctx context.Context, table string, rowID int64, e *models.LegacyEntry) error {
	if err := checkTable(table); err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET name=?, quantity=?, unit_price=?, total=?, menu_ref=?, occurred_at=? WHERE id=?`, table)
	res, err := r.db.ExecContext(ctx, query,
		e.Name, e.Quantity, e.UnitPrice, e.Total, e.MenuRef, models.TimeToDB(e.OccurredAt), rowID)
	if err != nil {
		return fmt.Errorf("failed to update %s row: %w", table, err)
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

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, table string, rowID int64) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id=?`, table), rowID); err != nil {
		return fmt.Errorf("failed to delete %s row: %w", table, err)
	}
	return nil
}

func (r *SQLiteRepository) ListEntries(ctx context.Context, table string) ([]models.LegacyEntry, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, name, quantity, unit_price, total, menu_ref, occurred_at FROM %s ORDER BY id`, table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s rows: %w", table, err)
	}
	defer rows.Close()

	var result []models.LegacyEntry
	for rows.Next() {
		var (
			e          models.LegacyEntry
			occurredAt string
		)
		if err := rows.Scan(&e.RowID, &e.Name, &e.Quantity, &e.UnitPrice, &e.Total, &e.MenuRef, &occurredAt); err != nil {
			return nil, err
		}
		if e.OccurredAt, err = models.TimeFromDB(occurredAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
