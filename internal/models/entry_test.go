package models

import (
	"testing"
	"time"
)

func TestNewCacheEntry(t *testing.T) {
	data := []byte("payload")
	ttl := TTL{Fresh: 30 * time.Second, Retain: 300 * time.Second}

	entry := NewCacheEntry(data, ttl)

	if string(entry.Data) != "payload" {
		t.Errorf("NewCacheEntry() Data = %q, want %q", entry.Data, "payload")
	}
	if entry.StaleAt != entry.CreatedAt+30 {
		t.Errorf("NewCacheEntry() StaleAt = %d, want CreatedAt+30", entry.StaleAt)
	}
	if entry.ExpiresAt != entry.CreatedAt+330 {
		t.Errorf("NewCacheEntry() ExpiresAt = %d, want CreatedAt+330", entry.ExpiresAt)
	}
}

func TestCacheEntry_IsFresh(t *testing.T) {
	now := time.Now().Unix()

	fresh := CacheEntry{StaleAt: now + 100, ExpiresAt: now + 200}
	if !fresh.IsFresh() {
		t.Errorf("IsFresh() = false for entry within freshness window")
	}

	stale := CacheEntry{StaleAt: now - 10, ExpiresAt: now + 200}
	if stale.IsFresh() {
		t.Errorf("IsFresh() = true for entry past its freshness window")
	}
}

func TestCacheEntry_IsExpired(t *testing.T) {
	now := time.Now().Unix()

	retained := CacheEntry{StaleAt: now - 100, ExpiresAt: now + 100}
	if retained.IsExpired() {
		t.Errorf("IsExpired() = true for entry within retention window")
	}

	expired := CacheEntry{StaleAt: now - 200, ExpiresAt: now - 100}
	if !expired.IsExpired() {
		t.Errorf("IsExpired() = false for entry past its retention window")
	}
}
