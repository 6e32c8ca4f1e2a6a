package redis

import (
	"context"
	"customer-management/internal/config"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func NewClient(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*goredis.Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("redis host is empty in configuration")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		logger.Error("Failed to ping Redis", "error", err)
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis.", "addr", client.Options().Addr, "db", cfg.DB)
	return client, nil
}
