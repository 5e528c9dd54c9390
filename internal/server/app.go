// Package server initializes and runs the application: it loads
// configuration, opens and migrates the database, wires services, handles
// graceful shutdown, and starts the HTTP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/taskdeck/taskdeck/internal/logging"
	"github.com/taskdeck/taskdeck/internal/server/auth"
	"github.com/taskdeck/taskdeck/internal/server/config"
	"github.com/taskdeck/taskdeck/internal/server/repositories/repomanager"
	"github.com/taskdeck/taskdeck/internal/server/services"
	"github.com/taskdeck/taskdeck/internal/server/shared/db"

	hs "github.com/taskdeck/taskdeck/internal/server/http"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	httpServer *hs.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	rm := repomanager.NewPostgresRepositoryManager()

	pool, err := db.Open(ctx, cfg.DatabaseDSN, rm)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	authService := auth.NewService(rm.Users(pool), cfg)
	userService := services.NewUserService(pool, rm)
	taskService := services.NewTaskService(pool, rm)

	srv := hs.NewServer(cfg.EndpointAddr, logger, authService, userService, taskService)

	return &App{config: cfg, logger: logger, httpServer: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
