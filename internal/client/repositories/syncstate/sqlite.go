package syncstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kasku-app/kasku/internal/client/models"
	"github.com/kasku-app/kasku/internal/dbx"
)

// SQLiteRepository implements Repository over the sync_state key/value table.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func cursorKey(companyID string) string {
	return "cursor:" + companyID
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM sync_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync_state[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set sync_state[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_state`); err != nil {
		return fmt.Errorf("failed to clear sync_state: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetCursor(ctx context.Context, companyID string) (time.Time, error) {
	value, err := r.Get(ctx, cursorKey(companyID))
	if err != nil {
		return time.Time{}, err
	}
	if value == nil {
		return time.Time{}, nil
	}
	return models.TimeFromDB(string(value))
}

func (r *SQLiteRepository) SetCursor(ctx context.Context, companyID string, t time.Time) error {
	return r.Set(ctx, cursorKey(companyID), []byte(models.TimeToDB(t)))
}
