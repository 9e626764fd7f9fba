package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creaturedex/internal/creatures"
	"creaturedex/internal/creatures/repository"
	"creaturedex/internal/creatures/service"
	apphttp "creaturedex/internal/http"
	"creaturedex/internal/http/router"
	"creaturedex/internal/scheduler"
	"creaturedex/internal/seed"
	"creaturedex/platform/config"
	"creaturedex/platform/db"
	"creaturedex/platform/logger"
	"creaturedex/platform/validator"
)

// memoryDatabase as DATABASE_URL runs the API on an in-process store seeded
// from the bundled dataset.
const memoryDatabase = "memory"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	repo, health, closeStore := openRepository(ctx, cfg, log)
	defer closeStore()

	reseeder, closeScheduler := initReseedScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	val := validator.New()
	creaturesModule := creatures.NewModule(repo, reseeder, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  health,
		Modules: []apphttp.Module{creaturesModule},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// openRepository returns the creature store and its health check. Startup
// fails when the database does not become ready within the readiness budget.
func openRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.Repository, apphttp.HealthChecker, func()) {
	if cfg.GetDatabaseURL() == memoryDatabase {
		repo := repository.NewMemRepo()
		dataset, err := seed.LoadDataset(cfg.GetSeedDatasetPath())
		if err != nil {
			log.Error("failed to load seed dataset", "error", err, "path", cfg.GetSeedDatasetPath())
			panic("failed to load seed dataset: " + err.Error())
		}
		if _, err := seed.NewLoader(repo, nil, log).Seed(ctx, dataset); err != nil {
			log.Error("failed to seed memory store", "error", err)
			panic("failed to seed memory store: " + err.Error())
		}
		log.Warn("using in-memory creature store; data is lost on exit")
		return repo, nil, func() {}
	}

	pool, err := db.Connect(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	return repository.New(pool), db.NewPoolAdapter(pool), pool.Close
}

// initReseedScheduler returns nil when reseeds cannot reach the store the API
// serves: without Redis, or on the in-memory store, which the worker never
// sees.
func initReseedScheduler(cfg *config.Config, log *logger.Logger) (service.ReseedScheduler, func()) {
	if cfg.GetDatabaseURL() == memoryDatabase {
		log.Warn("reseed scheduling disabled for the in-memory store")
		return nil, nil
	}
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; reseed scheduling disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reseed scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}
