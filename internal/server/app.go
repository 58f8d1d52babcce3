// Package server wires the API server together: configuration, logger,
// storage backend, token service, services and the HTTP endpoint. It also
// handles signals and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/scuttlebutt/internal/idgen"
	"github.com/dmitrijs2005/scuttlebutt/internal/logging"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/auth"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/config"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/httpapi"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	http   *httpapi.HTTPServer
}

// NewApp opens the storage backend named by c.DatabaseDSN and builds the
// server. Log lines go to w as JSON.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(w, c.LogLevel)

	repos, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	secret, err := auth.NewRandomSecret()
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("secret init error: %w", err)
	}
	tokens, err := auth.NewTokenService(secret)
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("token service init error: %w", err)
	}

	svc := services.New(repos, tokens,
		services.WithIDSource(idgen.New(c.NodeID)),
		services.WithLogger(logger.With("module", "services")),
		services.WithTokenTTL(c.TokenTTL),
	)
	hs := httpapi.NewHTTPServer(c.EndpointAddr, logger, svc, tokens, httpapi.WithMetrics(c.MetricsEnabled))

	return &App{config: c, logger: logger, repos: repos, http: hs}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the storage backend.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.EndpointAddr, "memory_store", app.config.DatabaseDSN == repomanager.MemoryDSN)

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()
	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
	return runErr
}
