package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := fromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/creature_db")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.GetReadinessMaxAttempts())
	assert.Equal(t, 2*time.Second, cfg.GetReadinessInterval())
	assert.Equal(t, "https://pokeapi.co/api/v2/", cfg.GetCatalogBaseURL())
	assert.Equal(t, 10*time.Second, cfg.GetCatalogTimeout())
	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
	assert.True(t, cfg.GetCORSAllowAll())
	assert.False(t, cfg.IsArchiveEnabled())
}

func TestArchiveRequiresCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/creature_db")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "")

	_, err := fromEnv()
	require.Error(t, err)
}

func TestRejectsZeroReadinessBudget(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/creature_db")
	t.Setenv("READINESS_MAX_ATTEMPTS", "0")

	_, err := fromEnv()
	require.Error(t, err)
}
