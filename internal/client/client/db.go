// Package client wires the on-device database: it opens SQLite, runs the
// embedded migrations and vends the repository set.
package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kasku-app/kasku/internal/client/migrations"
	"github.com/kasku-app/kasku/internal/client/repositories/legacy"
	"github.com/kasku-app/kasku/internal/client/repositories/menus"
	"github.com/kasku-app/kasku/internal/client/repositories/syncstate"
	"github.com/kasku-app/kasku/internal/client/repositories/transactions"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Repositories bundles the repository set over one database handle.
type Repositories struct {
	Menus        menus.Repository
	Transactions transactions.Repository
	Legacy       legacy.Repository
	SyncState    syncstate.Repository
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local database, migrates it and returns the
// repositories plus the raw handle (the mirror applier and transaction
// helpers need it).
func InitDatabase(ctx context.Context, dsn string) (*Repositories, *sql.DB, error) {
	// busy_timeout makes SQLite wait out the writer instead of failing a
	// concurrent local edit while a pull-apply transaction holds the lock.
	db, err := sql.Open("sqlite", dsn+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	repos := &Repositories{
		Menus:        menus.NewSQLiteRepository(db),
		Transactions: transactions.NewSQLiteRepository(db),
		Legacy:       legacy.NewSQLiteRepository(db),
		SyncState:    syncstate.NewSQLiteRepository(db),
	}
	return repos, db, nil
}
