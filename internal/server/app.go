// Package server initializes and runs the application: configuration,
// logging, database with migrations, object storage, services and the HTTP
// endpoint, with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/shelfshare/shelfshare/internal/logging"
	"github.com/shelfshare/shelfshare/internal/server/blob"
	"github.com/shelfshare/shelfshare/internal/server/config"
	"github.com/shelfshare/shelfshare/internal/server/httpapi"
	"github.com/shelfshare/shelfshare/internal/server/repositories/repomanager"
	"github.com/shelfshare/shelfshare/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// App owns the process-wide resources of a running server.
type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *http.Server
}

// NewApp wires every layer but does not start serving.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	blobs, err := blob.NewS3Store(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	userService := services.NewUserService(db, m, blobs, cfg)
	friendshipService := services.NewFriendshipService(db, m)
	bookService := services.NewBookService(db, m, blobs)
	noteService := services.NewNoteService(db, m)

	api := httpapi.NewServer(userService, friendshipService, bookService, noteService,
		db, m, cfg, logger)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		server: &http.Server{
			Addr:    cfg.EndpointAddrHTTP,
			Handler: api.Router(),
		},
	}, nil
}

// Run serves until the context is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.initSignalHandler(cancel)

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddrHTTP)
		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown error: %w", err)
	}
	if err := app.db.Close(); err != nil {
		return fmt.Errorf("db close error: %w", err)
	}

	return nil
}

func (app *App) initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}
