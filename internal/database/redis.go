package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/avialine/backoffice/internal/config"
)

func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  cfg.RedisDialTimeout,
		ReadTimeout:  cfg.RedisOpTimeout,
		WriteTimeout: cfg.RedisOpTimeout,
	})
	pingCtx, cancel := context.WithTimeout(ctx, cfg.RedisDialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}
