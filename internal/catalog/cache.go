package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"creaturedex/internal/creature"
)

const cacheKeyPrefix = "creaturedex:catalog:listing:"

// ListingCache stores listing pages. Details are never cached.
type ListingCache interface {
	Get(ctx context.Context, key string) ([]creature.Candidate, bool, error)
	Set(ctx context.Context, key string, candidates []creature.Candidate) error
}

// RedisCache is a ListingCache on Redis with a fixed TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache wraps rdb. A non-positive ttl keeps entries until evicted.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// NewRedisCacheFromURL parses a redis:// URL and connects lazily.
func NewRedisCacheFromURL(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return NewRedisCache(redis.NewClient(opts), ttl), nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]creature.Candidate, bool, error) {
	raw, err := r.rdb.Get(ctx, cacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var candidates []creature.Candidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, false, err
	}
	return candidates, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, candidates []creature.Candidate) error {
	raw, err := json.Marshal(candidates)
	if err != nil {
		return err
	}
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	return r.rdb.Set(ctx, cacheKeyPrefix+key, raw, ttl).Err()
}

// Close releases the Redis connection pool.
func (r *RedisCache) Close() error {
	return r.rdb.Close()
}
