package l2

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-query-cache/internal/config"
	"go-query-cache/internal/interfaces"
)

// Ensure redisClientWrapper implements interfaces.RedisClient
var _ interfaces.RedisClient = (*redisClientWrapper)(nil)

// redisClientWrapper wraps redis.Client to implement the RedisClient interface
type redisClientWrapper struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisClient creates a Redis client from a redis:// URL
func NewRedisClient(redisCfg *config.RedisConfig, redisURL string, logger *zap.Logger) (interfaces.RedisClient, error) {
	parsedURL, err := url.Parse(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	host := parsedURL.Hostname()
	port := parsedURL.Port()
	if port == "" {
		port = "6379"
	}

	dialTimeout := time.Duration(redisCfg.Connection.ConnectTimeoutMs) * time.Millisecond

	opts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		DialTimeout:  dialTimeout,
		ReadTimeout:  time.Duration(redisCfg.Connection.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(redisCfg.Connection.SendTimeoutMs) * time.Millisecond,
		PoolSize:     redisCfg.Keepalive.PoolSize,
		IdleTimeout:  time.Duration(redisCfg.Keepalive.MaxIdleTimeoutMs) * time.Millisecond,
	}

	if parsedURL.User != nil {
		if password, ok := parsedURL.User.Password(); ok {
			opts.Password = password
		}
	}

	if parsedURL.Path != "" && len(parsedURL.Path) > 1 {
		if db, err := strconv.Atoi(parsedURL.Path[1:]); err == nil {
			opts.DB = db
		}
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	logger.Info("Connected to Redis",
		zap.String("address", opts.Addr),
		zap.Duration("connect_timeout", dialTimeout),
		zap.Int("pool_size", redisCfg.Keepalive.PoolSize))

	return &redisClientWrapper{
		client: client,
		logger: logger,
	}, nil
}

// Get retrieves a value by key
func (r *redisClientWrapper) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.client.Get(ctx, key)
}

// Set stores a value with expiration
func (r *redisClientWrapper) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return r.client.Set(ctx, key, value, expiration)
}

// Del deletes one or more keys
func (r *redisClientWrapper) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.client.Del(ctx, keys...)
}

// Ping tests connectivity
func (r *redisClientWrapper) Ping(ctx context.Context) *redis.StatusCmd {
	return r.client.Ping(ctx)
}

// Close closes the client connection
func (r *redisClientWrapper) Close() error {
	return r.client.Close()
}
