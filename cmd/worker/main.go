package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"creaturedex/internal/archive"
	"creaturedex/internal/creatures/repository"
	"creaturedex/internal/scheduler"
	"creaturedex/internal/seed"
	"creaturedex/platform/config"
	"creaturedex/platform/db"
	"creaturedex/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting reseed worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	archiver, err := archive.Open(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize snapshot archive", "error", err)
		panic("failed to initialize snapshot archive: " + err.Error())
	}

	var snapshots seed.Archiver
	if archiver != nil {
		snapshots = archiver
		log.Info("pre-seed snapshots enabled", "bucket", cfg.GetMinIOBucketSnapshots())
	}

	loader := seed.NewLoader(repository.New(pool), snapshots, log)

	worker, err := scheduler.NewWorker(cfg, loader, log)
	if err != nil {
		log.Error("failed to initialize reseed worker", "error", err)
		panic("failed to initialize reseed worker: " + err.Error())
	}

	worker.Run(ctx)
}
