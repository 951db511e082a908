// Package server wires the account server together: storage, leaderboard,
// avatar uploads and the gRPC endpoint.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/typetutor/internal/logging"
	"github.com/dmitrijs2005/typetutor/internal/server/avatars"
	"github.com/dmitrijs2005/typetutor/internal/server/config"
	"github.com/dmitrijs2005/typetutor/internal/server/leaderboard"
	"github.com/dmitrijs2005/typetutor/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/typetutor/internal/server/services"

	gs "github.com/dmitrijs2005/typetutor/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *services.UserService
	closers     []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {

	logger := logging.NewJSONLogger(logOut, slog.LevelInfo)
	app := &App{config: c, logger: logger}

	rm, err := openRepositories(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, rm.Close)

	var board leaderboard.Board = leaderboard.NopBoard{}
	if c.RedisAddr != "" {
		rb, closeFn, err := leaderboard.Connect(ctx, c.RedisAddr)
		if err != nil {
			app.close(ctx)
			return nil, fmt.Errorf("leaderboard init error: %w", err)
		}
		board = rb
		app.closers = append(app.closers, closeFn)
	} else {
		logger.Warn(ctx, "no redis address configured, leaderboard disabled")
	}

	presigner, err := avatars.New(ctx, c)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("avatar storage init error: %w", err)
	}

	app.userService = services.NewUserService(rm, board, presigner, services.NewLogMailer(logger), c, logger)
	return app, nil
}

func openRepositories(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == config.MemoryDSN {
		return repomanager.NewInMemoryRepositoryManager(), nil
	}
	return repomanager.OpenPostgres(ctx, c.DatabaseDSN)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
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
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
}

func (app *App) close(ctx context.Context) {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Error(ctx, "close error", "error", err)
		}
	}
	app.closers = nil
}
