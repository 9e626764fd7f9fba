package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creaturedex/platform/apperr"
	"creaturedex/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// reseedUniqueWindow collapses reseed requests that arrive while one is
// still queued.
const reseedUniqueWindow = 5 * time.Minute

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueReseed queues a collection reseed. Reseeding is idempotent, so the
// task is not retried by asynq; a failed run is rerun by asking again.
func (c *Client) EnqueueReseed(ctx context.Context, dataset string) (string, string, error) {
	task, err := NewReseedTask(ReseedPayload{Dataset: dataset})
	if err != nil {
		return "", "", err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(0),
		asynq.Unique(reseedUniqueWindow),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			return "", "", apperr.Conflict("a reseed is already queued")
		}
		return "", "", err
	}
	return info.ID, info.Queue, nil
}

func queueName(cfg config.SchedulerConfig) string {
	if q := cfg.GetAsynqQueueName(); q != "" {
		return q
	}
	return "default"
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
