package l2

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"go-query-cache/internal/config"
	"go-query-cache/internal/interfaces"
	"go-query-cache/internal/metrics"
	"go-query-cache/internal/models"
)

// Ensure RedisStore implements interfaces.Store
var _ interfaces.Store = (*RedisStore)(nil)

// RedisStore implements the L2 store using Redis
type RedisStore struct {
	client interfaces.RedisClient
	config *config.Config
	logger *zap.Logger
}

// NewRedisStore creates a new Redis-backed store with the provided client
func NewRedisStore(cfg *config.Config, client interfaces.RedisClient, logger *zap.Logger) interfaces.Store {
	return &RedisStore{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Get retrieves a fresh-or-stale entry, dropping entries past retention
func (rs *RedisStore) Get(key string) (*models.CacheEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), rs.config.GetReadTimeout())
	defer cancel()

	data, err := rs.client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		rs.logger.Error("Failed to unmarshal L2 store entry", zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError("l2", "decode")
		rs.client.Del(context.Background(), key)
		return nil, false
	}

	if entry.IsExpired() {
		rs.client.Del(context.Background(), key)
		return nil, false
	}

	return &entry, true
}

// GetStale retrieves an entry regardless of freshness, as long as it is
// still within its retention window
func (rs *RedisStore) GetStale(key string) (*models.CacheEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), rs.config.GetReadTimeout())
	defer cancel()

	data, err := rs.client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		rs.logger.Error("Failed to unmarshal L2 store entry for stale get", zap.String("key", key), zap.Error(err))
		rs.client.Del(context.Background(), key)
		return nil, false
	}

	if entry.IsExpired() {
		rs.client.Del(context.Background(), key)
		return nil, false
	}

	return &entry, true
}

// Set stores a value with freshness and retention windows. The Redis key
// expires after the full retention window so eviction happens server-side.
func (rs *RedisStore) Set(key string, val []byte, ttl models.TTL) {
	ctx, cancel := context.WithTimeout(context.Background(), rs.config.GetSendTimeout())
	defer cancel()

	entry := models.NewCacheEntry(val, ttl)

	data, err := json.Marshal(entry)
	if err != nil {
		rs.logger.Error("Failed to marshal L2 store entry", zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError("l2", "encode")
		return
	}

	totalTTL := ttl.Fresh + ttl.Retain
	if err := rs.client.Set(ctx, key, data, totalTTL).Err(); err != nil {
		rs.logger.Error("Failed to set L2 store entry", zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError("l2", "upstream")
		return
	}
}

// Delete removes an entry from the store
func (rs *RedisStore) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), rs.config.GetSendTimeout())
	defer cancel()

	if err := rs.client.Del(ctx, key).Err(); err != nil {
		rs.logger.Error("Failed to delete L2 store entry", zap.String("key", key), zap.Error(err))
	}
}

// Close closes the underlying client connection
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
