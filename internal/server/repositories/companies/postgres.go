// Package companies provides the PostgreSQL-backed membership repository.
package companies

import (
	"context"
	"fmt"

	"github.com/kasku-app/kasku/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) IsMember(ctx context.Context, companyID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM company_members WHERE company_id=$1 AND user_id=$2)`
	var m bool
	if err := r.db.QueryRowContext(ctx, query, companyID, userID).Scan(&m); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return m, nil
}
