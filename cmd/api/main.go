package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/staff-scheduler/internal/audit"
	"github.com/BruksfildServices01/staff-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/staff-scheduler/internal/db"
	"github.com/BruksfildServices01/staff-scheduler/internal/events"
	"github.com/BruksfildServices01/staff-scheduler/internal/handlers"
	"github.com/BruksfildServices01/staff-scheduler/internal/infra/memory"
	infraRepo "github.com/BruksfildServices01/staff-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/staff-scheduler/internal/logging"
	"github.com/BruksfildServices01/staff-scheduler/internal/middleware"
	"github.com/BruksfildServices01/staff-scheduler/internal/routes"
)

const (
	auditQueueSize  = 256
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handlers.Check{}

	store, err := openStore(ctx, cfg, logger, checks)
	if err != nil {
		return err
	}

	sinks := []audit.Sink{audit.NewStoreSink(store)}
	if cfg.KafkaBrokers != "" {
		publisher, err := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			return err
		}
		defer func() { _ = publisher.Close() }()
		sinks = append(sinks, publisher)
		checks["kafka"] = events.ReadyCheck(cfg.KafkaBrokers)
		logger.Info("publishing domain events", zap.String("topic", cfg.KafkaTopic))
	}
	dispatcher := audit.NewDispatcher(logger, auditQueueSize, sinks...)

	var limiter *middleware.RateLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer func() { _ = rdb.Close() }()
		limiter = middleware.NewRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, "rl:public", logger)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		logger.Warn("REDIS_ADDR not set, public routes are not rate limited")
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, cfg, routes.Deps{
		Store:       store,
		Dispatcher:  dispatcher,
		Logger:      logger,
		RateLimiter: limiter,
		Checks:      checks,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", cfg.Addr()), zap.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn("audit queue not drained", zap.Error(err))
	}
	return nil
}

func openStore(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	checks map[string]handlers.Check,
) (routes.Store, error) {

	if cfg.StoreBackend == config.BackendMemory {
		store := memory.New()
		if cfg.SeedFile != "" {
			if err := store.LoadFile(cfg.SeedFile); err != nil {
				return nil, err
			}
			logger.Info("seed loaded", zap.String("file", cfg.SeedFile))
		}
		logger.Warn("using the in-memory store, data is lost on restart")
		return store, nil
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := dbpkg.Migrate(ctx, db, logger); err != nil {
			return nil, err
		}
	}
	checks["database"] = dbpkg.ReadyCheck(db)
	return infraRepo.NewGormRepository(db, cfg.LockTimeout), nil
}
