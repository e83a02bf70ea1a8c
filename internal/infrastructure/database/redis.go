package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects the shared ephemeral store. The pool keeps a few
// idle connections warm since every search and heartbeat hits Redis.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:         cfg.GetAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  pingTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     cfg.PoolSize,
	}
	if opts.PoolSize > 0 {
		opts.MinIdleConns = max(1, opts.PoolSize/4)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}
