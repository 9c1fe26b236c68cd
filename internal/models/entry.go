package models

import "time"

// CacheEntry is the stored representation of a query result.
// Timestamps are Unix seconds so the entry survives JSON round-trips
// through any store backend.
type CacheEntry struct {
	Data      []byte `json:"data"`
	CreatedAt int64  `json:"created_at"`
	StaleAt   int64  `json:"stale_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// IsFresh reports whether the entry is still within its freshness window.
func (e *CacheEntry) IsFresh() bool {
	return time.Now().Unix() < e.StaleAt
}

// IsExpired reports whether the entry is past its retention window and
// must not be served even as stale data.
func (e *CacheEntry) IsExpired() bool {
	return time.Now().Unix() >= e.ExpiresAt
}

// TTL represents the two windows attached to a stored query result
type TTL struct {
	Fresh  time.Duration // how long the result is served without refetching
	Retain time.Duration // how long past freshness the result is kept for stale serving
}

// NewCacheEntry builds an entry stamped with the current time and the
// given windows.
func NewCacheEntry(data []byte, ttl TTL) CacheEntry {
	now := time.Now().Unix()
	return CacheEntry{
		Data:      data,
		CreatedAt: now,
		StaleAt:   now + int64(ttl.Fresh.Seconds()),
		ExpiresAt: now + int64(ttl.Fresh.Seconds()) + int64(ttl.Retain.Seconds()),
	}
}
