package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	_, ok := m.Get(ctx, "recruit:example")
	assert.False(t, ok, "empty cache misses")

	m.Set(ctx, "recruit:example", []byte(`{"companyDomain":"example"}`))
	got, ok := m.Get(ctx, "recruit:example")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"companyDomain":"example"}`), got)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(5 * time.Minute)

	clock := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	m.Set(ctx, "k", []byte("v"))

	clock = clock.Add(5 * time.Minute)
	_, ok := m.Get(ctx, "k")
	assert.True(t, ok, "entry still fresh at exactly the TTL boundary")

	clock = clock.Add(time.Nanosecond)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok, "entry expired past the TTL")
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	m.Set(ctx, "k", []byte("v"))
	m.Delete(ctx, "k")
	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNewMemoryDefaultTTL(t *testing.T) {
	m := NewMemory(0)
	assert.Equal(t, DefaultTTL, m.ttl)
}
