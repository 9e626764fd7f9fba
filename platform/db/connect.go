package db

import (
	"context"

	"creaturedex/platform/config"
	"creaturedex/platform/logger"
	"creaturedex/platform/readiness"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectConfig is what Connect reads from configuration.
type ConnectConfig interface {
	config.DatabaseConfig
	config.ReadinessConfig
}

// Connect creates the pool, waits until the database answers a ping within
// the readiness budget, then applies pending migrations. The caller closes
// the returned pool.
func Connect(ctx context.Context, cfg ConnectConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	probe := readiness.New("database", cfg, log)
	if err := probe.WaitUntilReady(ctx, NewPoolAdapter(pool).Ping); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("database connection established")

	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("database migrations complete")

	return pool, nil
}
