// Package server wires configuration, storage, services and transports into
// a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskplaces/internal/logging"
	"github.com/dmitrijs2005/taskplaces/internal/server/auth"
	"github.com/dmitrijs2005/taskplaces/internal/server/cache"
	"github.com/dmitrijs2005/taskplaces/internal/server/config"
	"github.com/dmitrijs2005/taskplaces/internal/server/httpapi"
	"github.com/dmitrijs2005/taskplaces/internal/server/models"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/memory"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskplaces/internal/server/services"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/taskplaces/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	http   *httpapi.Server
	grpc   *gs.HealthServer
}

// NewApp opens storage and the optional cache and builds both servers.
// Log output goes to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger := logging.New(w, c.LogLevel, c.LogJSON)
	app := &App{config: c, logger: logger}

	repos, err := app.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	if err := repos.RunMigrations(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	var (
		taskCache  services.ListCache[models.Task]
		placeCache services.ListCache[models.Place]
	)
	if c.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, c.RedisAddr)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("cache init error: %w", err)
		}
		app.redis = rdb
		taskCache = cache.NewListCache[models.Task](rdb, "tasks", c.CacheTTL)
		placeCache = cache.NewListCache[models.Place](rdb, "places", c.CacheTTL)
	}

	removal, err := services.RemovalStrategyFor(c.UserDeletePolicy)
	if err != nil {
		app.Close()
		return nil, err
	}

	tokens := auth.NewTokenService(c)
	tasks := services.NewTaskService(repos, taskCache, logger)
	places := services.NewPlaceService(repos, placeCache, logger)
	users := services.NewUserService(repos, auth.NewCredentialStore(), tokens, removal, logger, tasks, places)

	router := httpapi.NewRouter(httpapi.Services{
		Users:  users,
		Tasks:  tasks,
		Places: places,
		Gate:   auth.NewGate(tokens),
	}, logger)

	app.http = httpapi.NewServer(c.EndpointAddrHTTP, router, logger)
	app.grpc = gs.NewHealthServer(c.EndpointAddrGRPC, logger)

	logger.Info(ctx, "app initialised",
		"storage", c.StorageDriver,
		"user_delete_policy", removal.Name(),
		"cache", c.RedisAddr != "")

	return app, nil
}

func (app *App) openStorage(ctx context.Context) (repomanager.RepositoryManager, error) {
	switch app.config.StorageDriver {
	case config.StorageDriverMemory:
		return repomanager.NewMemoryRepositoryManager(memory.NewStore()), nil
	case config.StorageDriverPostgres:
		db, err := repomanager.OpenPostgres(ctx, app.config.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		return repomanager.NewPostgresRepositoryManager(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", app.config.StorageDriver)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

type runner interface {
	Run(ctx context.Context) error
}

// Run serves HTTP and gRPC until ctx is cancelled, a signal arrives or
// either server fails. Storage is closed before returning.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.Close()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, r := range []runner{app.http, app.grpc} {
		wg.Add(1)
		go func(r runner) {
			defer wg.Done()
			if err := r.Run(ctx); err != nil {
				app.logger.Error(ctx, err.Error())
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				cancelFunc()
			}
		}(r)
	}
	wg.Wait()

	app.logger.Info(context.Background(), "app stopped")
	return errors.Join(errs...)
}

// Close releases the database and cache connections.
func (app *App) Close() {
	if app.redis != nil {
		_ = app.redis.Close()
		app.redis = nil
	}
	if app.db != nil {
		_ = app.db.Close()
		app.db = nil
	}
}
