// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// ReadinessConfig provides the bounded polling budget used at startup.
type ReadinessConfig interface {
	GetReadinessMaxAttempts() int
	GetReadinessInterval() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetRateLimitPerSecond() float64
	GetRateLimitBurst() int
}

// SeedConfig provides the location of the bundled dataset.
type SeedConfig interface {
	GetSeedDatasetPath() string
}

// CatalogConfig provides settings for the external creature catalog.
type CatalogConfig interface {
	GetCatalogBaseURL() string
	GetCatalogPageSize() int
	GetCatalogTimeout() time.Duration
	GetCatalogCacheTTL() time.Duration
}

// StorageAPIConfig provides settings for clients of the storage API.
type StorageAPIConfig interface {
	GetStorageAPIURL() string
	GetStorageAPITimeout() time.Duration
}

// SchedulerConfig provides settings for the asynq reseed queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
}

// ArchiveConfig provides settings for MinIO collection snapshots.
type ArchiveConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOBucketSnapshots() string
	IsArchiveEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	ReadinessMaxAttempts int
	ReadinessInterval    time.Duration
	CORSAllowAll         bool
	CORSOrigins          []string
	RateLimitPerSecond   float64
	RateLimitBurst       int
	SeedDatasetPath      string
	CatalogBaseURL       string
	CatalogPageSize      int
	CatalogTimeout       time.Duration
	CatalogCacheTTL      time.Duration
	StorageAPIURL        string
	StorageAPITimeout    time.Duration
	RedisURL             string
	AsynqQueueName       string
	MinIOEndpoint        string
	MinIOAccessKey       string
	MinIOSecretKey       string
	MinIOUseSSL          bool
	MinIOBucketSnapshots string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// ReadinessConfig implementation
func (c *Config) GetReadinessMaxAttempts() int        { return c.ReadinessMaxAttempts }
func (c *Config) GetReadinessInterval() time.Duration { return c.ReadinessInterval }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string             { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool           { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string        { return c.CORSOrigins }
func (c *Config) GetRateLimitPerSecond() float64  { return c.RateLimitPerSecond }
func (c *Config) GetRateLimitBurst() int          { return c.RateLimitBurst }

// SeedConfig implementation
func (c *Config) GetSeedDatasetPath() string { return c.SeedDatasetPath }

// CatalogConfig implementation
func (c *Config) GetCatalogBaseURL() string          { return c.CatalogBaseURL }
func (c *Config) GetCatalogPageSize() int            { return c.CatalogPageSize }
func (c *Config) GetCatalogTimeout() time.Duration   { return c.CatalogTimeout }
func (c *Config) GetCatalogCacheTTL() time.Duration  { return c.CatalogCacheTTL }

// StorageAPIConfig implementation
func (c *Config) GetStorageAPIURL() string            { return c.StorageAPIURL }
func (c *Config) GetStorageAPITimeout() time.Duration { return c.StorageAPITimeout }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }

// ArchiveConfig implementation
func (c *Config) GetMinIOEndpoint() string        { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string       { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string       { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool            { return c.MinIOUseSSL }
func (c *Config) GetMinIOBucketSnapshots() string { return c.MinIOBucketSnapshots }
func (c *Config) IsArchiveEnabled() bool          { return c.MinIOEndpoint != "" }

// Load reads configuration from environment variables, after merging a
// .env file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

// LoadClient reads the subset of configuration the player CLI needs. Unlike
// Load it does not require DATABASE_URL.
func LoadClient() (*Config, error) {
	_ = godotenv.Load()
	cfg := build()
	if cfg.StorageAPIURL == "" {
		return nil, fmt.Errorf("STORAGE_API_URL is required")
	}
	return cfg, nil
}

func fromEnv() (*Config, error) {
	cfg := build()

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.ReadinessMaxAttempts < 1 {
		return nil, fmt.Errorf("READINESS_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.CatalogPageSize < 1 {
		return nil, fmt.Errorf("CATALOG_PAGE_SIZE must be at least 1")
	}
	if cfg.IsArchiveEnabled() && (cfg.MinIOAccessKey == "" || cfg.MinIOSecretKey == "") {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}

	return cfg, nil
}

func build() *Config {
	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "*"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	return &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		ReadinessMaxAttempts: mustInt(getEnv("READINESS_MAX_ATTEMPTS", "30")),
		ReadinessInterval:    mustDuration(getEnv("READINESS_INTERVAL", "2s")),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		RateLimitPerSecond:   mustFloat(getEnv("RATE_LIMIT_PER_SECOND", "20")),
		RateLimitBurst:       mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		SeedDatasetPath:      getEnv("SEED_DATASET_PATH", "data/sample-data.json"),
		CatalogBaseURL:       getEnv("CATALOG_BASE_URL", "https://pokeapi.co/api/v2/"),
		CatalogPageSize:      mustInt(getEnv("CATALOG_PAGE_SIZE", "20")),
		CatalogTimeout:       mustDuration(getEnv("CATALOG_TIMEOUT", "10s")),
		CatalogCacheTTL:      mustDuration(getEnv("CATALOG_CACHE_TTL", "10m")),
		StorageAPIURL:        getEnv("STORAGE_API_URL", "http://localhost:8080"),
		StorageAPITimeout:    mustDuration(getEnv("STORAGE_API_TIMEOUT", "10s")),
		RedisURL:             getEnv("REDIS_URL", ""),
		AsynqQueueName:       getEnv("ASYNQ_QUEUE", "default"),
		MinIOEndpoint:        getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:       getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:       getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:          strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOBucketSnapshots: getEnv("MINIO_BUCKET_SNAPSHOTS", "collection-snapshots"),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
