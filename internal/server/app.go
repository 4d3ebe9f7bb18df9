// Package server initializes and runs the GoalKeeper server: it opens the
// database, runs migrations, wires services with the summary worker, and
// serves the HTTP API with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/goalkeeper/internal/logging"
	"github.com/dmitrijs2005/goalkeeper/internal/server/config"
	"github.com/dmitrijs2005/goalkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/goalkeeper/internal/server/services"
	"github.com/dmitrijs2005/goalkeeper/internal/server/summary"
)

type App struct {
	config *config.Config
	logger logging.Logger

	db     *sql.DB
	server *httpapi.Server
	worker *summary.Worker
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager()
	if err != nil {
		return nil, fmt.Errorf("repository manager init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	queue := summary.NewQueue(cfg.SummaryQueueSize)
	worker := summary.NewWorker(queue, summary.NewOpenAIClient(cfg), rm.Goals(db), logger)

	authService := services.NewAuthService(db, rm, cfg)
	userService := services.NewUserService(db, rm, cfg)
	goalService := services.NewGoalService(db, rm, queue, logger)
	friendService := services.NewFriendService(db, rm, logger)

	server := httpapi.NewServer(cfg, authService, userService, goalService, friendService, logger)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		server: server,
		worker: worker,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.worker.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
