// Package cache provides the TTL cache in front of the settings persistence
// API. Readers always get the latest cached value or trigger a fresh fetch;
// entries are written only by successful load/save operations.
package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL matches the client-side recruit settings cache of 5 minutes.
const DefaultTTL = 5 * time.Minute

// Store is a byte-blob cache with a fixed TTL per store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Delete(ctx context.Context, key string)
}

// Memory is the in-process Store. Map mutation is guarded by a mutex so the
// cache is safe for concurrent handler goroutines.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates an in-memory store. A non-positive ttl falls back to
// DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the cached value when present and fresh.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores a value with the configured TTL.
func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(m.ttl)}
}

// Delete drops a key, forcing a fresh fetch on the next read.
func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}
