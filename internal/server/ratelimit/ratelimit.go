// Package ratelimit throttles the page and settings API endpoints with
// per-client token buckets. Saves are the scarce resource here: every write
// fans out to the Apps Script bridge, which enforces its own quota, so the
// save tiers are far tighter than the page tiers.
package ratelimit

import (
	"sync"
	"time"
)

// bucketIdleTimeout is how long an untouched bucket survives before the
// sweeper drops it.
const bucketIdleTimeout = time.Hour

// tokenBucket is one client+endpoint bucket. Tokens refill continuously at
// refillRate per second up to capacity; a request consumes one token.
type tokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
}

func newTokenBucket(capacity int, refillRate float64) *tokenBucket {
	now := time.Now()
	return &tokenBucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastSeen:   now,
	}
}

// take refills, consumes one token if available, and reports the remaining
// count and the time the bucket will be full again.
func (b *tokenBucket) take() (ok bool, remaining int, reset time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * b.refillRate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now
	b.lastSeen = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		ok = true
	}

	remaining = int(b.tokens)
	reset = now
	if b.tokens < b.capacity {
		missing := b.capacity - b.tokens
		reset = now.Add(time.Duration(missing / b.refillRate * float64(time.Second)))
	}
	return ok, remaining, reset
}

func (b *tokenBucket) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSeen.Before(cutoff)
}

// Info is the rate limit status attached to a response.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration, see LoadConfig.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter holds the per-client buckets and sweeps idle ones periodically.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	config  *Config
	ticker  *time.Ticker
	stop    chan struct{}
}

// NewLimiter creates a rate limiter. A nil config enables limiting with the
// global defaults and no endpoint tiers.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		buckets: make(map[string]*tokenBucket),
		config:  config,
	}
	if config.Enabled && config.CleanupInterval > 0 {
		l.ticker = time.NewTicker(config.CleanupInterval)
		l.stop = make(chan struct{})
		go l.run()
	}
	return l
}

// Allow checks whether one request from clientID against path+method may
// proceed, consuming a token when it does.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	tier := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if tier == nil {
		tier = &EndpointConfig{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	}
	if tier.Limit <= 0 {
		// Unlimited tier, e.g. the health check.
		return true, Info{Allowed: true}
	}

	bucket := l.bucket(clientID+" "+method+" "+path, tier)
	ok, remaining, reset := bucket.take()

	info := Info{
		Allowed:   ok,
		Limit:     tier.Limit,
		Remaining: remaining,
		ResetTime: reset,
	}
	if !ok {
		if wait := time.Until(reset); wait > 0 {
			info.RetryAfter = wait
		}
	}
	return ok, info
}

// bucket returns the bucket for the key, creating it from the tier's limits
// on first use.
func (l *Limiter) bucket(key string, tier *EndpointConfig) *tokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		burst := tier.Burst
		if burst <= 0 {
			burst = tier.Limit
		}
		b = newTokenBucket(burst, float64(tier.Limit)/tier.Window.Seconds())
		l.buckets[key] = b
	}
	return b
}

func (l *Limiter) run() {
	for {
		select {
		case <-l.ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets no request has touched within bucketIdleTimeout.
func (l *Limiter) sweep() {
	cutoff := time.Now().Add(-bucketIdleTimeout)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop halts the sweeper goroutine.
func (l *Limiter) Stop() {
	if l.ticker != nil {
		l.ticker.Stop()
	}
	if l.stop != nil {
		close(l.stop)
	}
}
