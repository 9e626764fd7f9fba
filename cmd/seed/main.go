package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"creaturedex/internal/archive"
	"creaturedex/internal/creature"
	"creaturedex/internal/creatures/repository"
	"creaturedex/internal/seed"
	"creaturedex/platform/config"
	"creaturedex/platform/db"
	"creaturedex/platform/logger"
)

const latestSnapshot = "latest"

type options struct {
	datasetPath  string
	fromSnapshot string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the creature collection with a dataset",
		Long: `Seed waits for the database, applies migrations, then replaces the whole
collection with the dataset and declares the unique indexes on id and name.

The existing rows are truncated. When MINIO_ENDPOINT is set they are
snapshotted first, and --from-snapshot restores such a snapshot.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.datasetPath, "dataset", "", "dataset file (.json, .yaml, .yml, .toml); defaults to SEED_DATASET_PATH")
	cmd.Flags().StringVar(&opts.fromSnapshot, "from-snapshot", "", `restore a snapshot key instead of a dataset ("latest" for the newest)`)
	cmd.MarkFlagsMutuallyExclusive("dataset", "from-snapshot")

	return cmd
}

func run(ctx context.Context, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	archiver, err := archive.Open(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize snapshot archive", "error", err)
		return err
	}

	dataset, err := loadDataset(ctx, cfg, archiver, opts)
	if err != nil {
		log.Error("failed to load dataset", "error", err)
		return err
	}

	pool, err := db.Connect(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return err
	}
	defer pool.Close()

	var snapshots seed.Archiver
	if archiver != nil {
		snapshots = archiver
	}

	report, err := seed.NewLoader(repository.New(pool), snapshots, log).Seed(ctx, dataset)
	if err != nil {
		var seedErr *seed.Error
		if errors.As(err, &seedErr) {
			log.Error("seed failed", "stage", seedErr.Stage, "inserted", seedErr.Report.Inserted, "count", seedErr.Report.Count)
		}
		return err
	}

	log.Info("seed complete", "inserted", report.Inserted, "count", report.Count, "snapshot", report.Snapshot)
	return nil
}

func loadDataset(ctx context.Context, cfg *config.Config, archiver *archive.Archiver, opts *options) ([]creature.Record, error) {
	if opts.fromSnapshot == "" {
		path := opts.datasetPath
		if path == "" {
			path = cfg.GetSeedDatasetPath()
		}
		return seed.LoadDataset(path)
	}

	if archiver == nil {
		return nil, errors.New("--from-snapshot requires MINIO_ENDPOINT")
	}

	key := opts.fromSnapshot
	if key == latestSnapshot {
		latest, err := archiver.Latest(ctx)
		if err != nil {
			return nil, err
		}
		key = latest
	}
	return archiver.Load(ctx, key)
}
