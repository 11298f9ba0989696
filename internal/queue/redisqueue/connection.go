package redisqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis"
	"github.com/kurochkinivan/bulk_uploader/internal/config"
	"github.com/kurochkinivan/bulk_uploader/internal/repository/postgresql"
)

const (
	maxRetries = 5
	retryDelay = 2 * time.Second
)

func NewClient(ctx context.Context, log *slog.Logger, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ping := func(context.Context) error {
		return client.Ping().Err()
	}

	if err := postgresql.Retry(log, ping, maxRetries, retryDelay)(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
