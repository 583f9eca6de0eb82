package database

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ministryhub_backend/internals/configs"
)

const blacklistPrefix = "token:blacklist:"

// RedisClient currently only backs the token blacklist.
type RedisClient struct {
	rdb *goredis.Client
}

// NewRedisClient connects and pings. Returns nil, nil when redis is disabled.
func NewRedisClient(cfg configs.RedisConfig, log *zap.Logger) (*RedisClient, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	log.Info("✅ redis connected", zap.String("addr", cfg.Addr))
	return &RedisClient{rdb: rdb}, nil
}

// BlacklistToken stores the key until ttl elapses; an already expired
// token needs no entry.
func (c *RedisClient) BlacklistToken(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, blacklistPrefix+key, "1", ttl).Err()
}

func (c *RedisClient) IsBlacklisted(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
