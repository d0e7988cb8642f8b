package database

import (
	"context"
	"fmt"
	"time"

	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens the cache client. It returns nil, nil when REDIS_ADDR is not set.
func ConnectRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) (redis.UniversalClient, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Connected to redis", "addr", cfg.RedisAddr)
	return client, nil
}
