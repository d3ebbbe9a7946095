// Package cli implements the client command tree. It is the thin stand-in
// for the app's screens: every command funnels into the mutation tracker or
// the sync orchestrator exactly the way a screen would.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/kasku-app/kasku/internal/client/client"
	"github.com/kasku-app/kasku/internal/client/config"
	"github.com/kasku-app/kasku/internal/client/ledger"
	"github.com/kasku-app/kasku/internal/client/mirror"
	"github.com/kasku-app/kasku/internal/client/remote"
	"github.com/kasku-app/kasku/internal/client/repositories/syncstate"
	syncer "github.com/kasku-app/kasku/internal/client/sync"
	"github.com/kasku-app/kasku/internal/logging"
)

// App owns the wired client components for the duration of one CLI run.
type App struct {
	cfg    *config.Config
	db     *sql.DB
	repos  *client.Repositories
	ledger *ledger.Service
	remote *remote.HTTPClient
	syncer *syncer.Orchestrator
	logger logging.Logger
}

// NewApp opens the local database and wires services.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	repos, db, err := client.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	httpClient := remote.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout)
	applier := mirror.NewApplier(db)

	return &App{
		cfg:    cfg,
		db:     db,
		repos:  repos,
		ledger: ledger.NewService(repos.Menus, repos.Transactions),
		remote: httpClient,
		syncer: syncer.NewOrchestrator(repos.Menus, repos.Transactions, repos.SyncState, applier, httpClient, logger),
		logger: logger,
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.db.Close()
}

// loadSession installs the stored bearer token on the remote client and
// returns the stored company id.
func (a *App) loadSession(ctx context.Context) (string, error) {
	token, err := a.repos.SyncState.Get(ctx, syncstate.KeyToken)
	if err != nil {
		return "", err
	}
	if token == nil {
		return "", fmt.Errorf("not logged in")
	}
	a.remote.SetToken(string(token))

	companyID, err := a.repos.SyncState.Get(ctx, syncstate.KeyCompanyID)
	if err != nil {
		return "", err
	}
	if companyID == nil {
		return "", fmt.Errorf("no company selected")
	}
	return string(companyID), nil
}
