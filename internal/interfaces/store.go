package interfaces

import (
	"go-query-cache/internal/models"
)

//go:generate mockgen -package=mock -source=store.go -destination=mock/store.go

// Store is the contract for cache store backends
type Store interface {
	Get(key string) (*models.CacheEntry, bool)      // returns entry and found flag
	GetStale(key string) (*models.CacheEntry, bool) // returns entry even past freshness, and found flag
	Set(key string, val []byte, ttl models.TTL)
	Delete(key string)
}
