// Package server initializes and runs the sync server: it opens the
// database, runs migrations, wires services and serves the HTTP endpoint
// until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kasku-app/kasku/internal/logging"
	"github.com/kasku-app/kasku/internal/server/config"
	"github.com/kasku-app/kasku/internal/server/httpapi"
	"github.com/kasku-app/kasku/internal/server/migrations"
	"github.com/kasku-app/kasku/internal/server/repositories/companies"
	"github.com/kasku-app/kasku/internal/server/repositories/sessions"
	"github.com/kasku-app/kasku/internal/server/repositories/users"
	"github.com/kasku-app/kasku/internal/server/services"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	authSvc *services.AuthService
	syncSvc *services.SyncService
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	authSvc := services.NewAuthService(
		users.NewPostgresRepository(db),
		sessions.NewPostgresRepository(db),
		[]byte(c.SecretKey),
		c.SessionValidityDuration,
	)
	syncSvc := services.NewSyncService(db, companies.NewPostgresRepository(db))

	return &App{config: c, logger: logger, db: db, authSvc: authSvc, syncSvc: syncSvc}, nil
}

// RunMigrations applies the embedded goose migrations.
func (app *App) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, app.db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.initSignalHandler(cancel)

	if err := app.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	router := httpapi.NewRouter(app.logger, app.authSvc, app.syncSvc)
	srv := &http.Server{Addr: app.config.EndpointAddr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	app.logger.Info(ctx, "server stopped")
	return app.db.Close()
}
