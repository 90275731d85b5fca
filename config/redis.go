package config

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// NewRedis returns nil, nil when no redis address is configured.
func NewRedis(ctx context.Context, cfg *App) (*redis.Client, error) {
	val := cfg.RedisAddr
	if val == "" {
		return nil, nil
	}

	var rdb *redis.Client
	if strings.HasPrefix(val, "redis://") || strings.HasPrefix(val, "rediss://") {
		opt, err := redis.ParseURL(val)
		if err != nil {
			return nil, err
		}
		rdb = redis.NewClient(opt)
	} else {
		rdb = redis.NewClient(&redis.Options{Addr: val})
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
