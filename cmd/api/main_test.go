package main

import (
	"testing"

	"creaturedex/platform/config"
	"creaturedex/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitReseedScheduler(t *testing.T) {
	t.Run("memory store never schedules", func(t *testing.T) {
		cfg := &config.Config{DatabaseURL: memoryDatabase, RedisURL: "redis://localhost:6379/0"}
		reseeder, closeFn := initReseedScheduler(cfg, logger.Nop())
		assert.Nil(t, reseeder)
		assert.Nil(t, closeFn)
	})

	t.Run("no redis", func(t *testing.T) {
		cfg := &config.Config{DatabaseURL: "postgres://localhost/creatures"}
		reseeder, closeFn := initReseedScheduler(cfg, logger.Nop())
		assert.Nil(t, reseeder)
		assert.Nil(t, closeFn)
	})

	t.Run("postgres with redis", func(t *testing.T) {
		cfg := &config.Config{DatabaseURL: "postgres://localhost/creatures", RedisURL: "redis://localhost:6379/0"}
		reseeder, closeFn := initReseedScheduler(cfg, logger.Nop())
		require.NotNil(t, reseeder)
		require.NotNil(t, closeFn)
		closeFn()
	})
}
