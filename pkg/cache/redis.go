package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	// TTL applied to every Set; zero means no expiry.
	TTL time.Duration
}

// RedisCache implements Cache on top of a Redis instance.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger ectologger.Logger
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg Config, logger ectologger.Logger) (*RedisCache, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Infof("Connected to Redis at %s", addr)

	return &RedisCache{
		rdb:    rdb,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key, namespace string) ([]byte, bool, error) {
	value, err := c.rdb.Get(ctx, namespacedKey(namespace, key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).WithField("key", key).Error("Failed to read from cache")
		return nil, false, err
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, namespace string, value []byte) error {
	return c.rdb.Set(ctx, namespacedKey(namespace, key), value, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key, namespace string) error {
	return c.rdb.Del(ctx, namespacedKey(namespace, key)).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// Ping checks if Redis is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
