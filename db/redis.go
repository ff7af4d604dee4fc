package db

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"switch-collector/pkg/logger"
)

type RedisOptions struct {
	Network string
	Addr    string
	DB      int
}

// NewRedisConnection opens a client and checks it with a PING.
func NewRedisConnection(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Network: opts.Network,
		Addr:    opts.Addr,
		DB:      opts.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to connect to redis at %s: %w", opts.Addr, err)
	}
	logger.Info().Str("network", opts.Network).Str("addr", opts.Addr).Int("db", opts.DB).Msg("redis connected")

	return client, nil
}
