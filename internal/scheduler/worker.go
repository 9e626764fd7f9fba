package scheduler

import (
	"context"
	"fmt"

	"creaturedex/internal/creature"
	"creaturedex/internal/seed"
	"creaturedex/platform/config"
	"creaturedex/platform/logger"

	"github.com/hibiken/asynq"
)

// Seeder replaces the collection with a dataset.
type Seeder interface {
	Seed(ctx context.Context, dataset []creature.Record) (seed.Report, error)
}

type Worker struct {
	server         *asynq.Server
	mux            *asynq.ServeMux
	seeder         Seeder
	defaultDataset string
	log            *logger.Logger
}

// WorkerConfig combines what the worker reads from configuration.
type WorkerConfig interface {
	config.SchedulerConfig
	config.SeedConfig
}

func NewWorker(cfg WorkerConfig, seeder Seeder, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	// One reseed at a time: runs truncate the same table.
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 1,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(seeder, cfg.GetSeedDatasetPath(), log)
	w.server = server
	return w, nil
}

func newWorker(seeder Seeder, defaultDataset string, log *logger.Logger) *Worker {
	w := &Worker{
		mux:            asynq.NewServeMux(),
		seeder:         seeder,
		defaultDataset: defaultDataset,
		log:            log,
	}
	w.mux.HandleFunc(TaskCollectionReseed, w.handleReseed)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("reseed worker stopped", "error", err)
	}
}

func (w *Worker) handleReseed(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseReseedPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	path, err := seed.ResolveDataset(w.defaultDataset, payload.Dataset)
	if err != nil {
		w.log.Error("reseed dataset rejected", "dataset", payload.Dataset, "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	dataset, err := seed.LoadDataset(path)
	if err != nil {
		w.log.Error("reseed dataset rejected", "path", path, "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	report, err := w.seeder.Seed(ctx, dataset)
	if err != nil {
		return err
	}

	w.log.Info("collection reseeded", "path", path, "inserted", report.Inserted, "count", report.Count, "snapshot", report.Snapshot)
	return nil
}
