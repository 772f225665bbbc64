// Package store persists editor preview drafts and settings snapshots.
// Drafts replace the browser's session storage: an unsaved draft is parked
// under "lp_preview_<jobId>" and loaded on the public path via a signed
// preview link. Snapshots record every save together with its sequence
// number so a stale save response can be recognized and discarded.
package store

import (
	"context"
	"sync"
	"time"
)

// DefaultDraftTTL is how long an unsaved preview draft is kept.
const DefaultDraftTTL = 24 * time.Hour

// DraftKey builds the storage key for a job's preview draft.
func DraftKey(jobKey string) string {
	return "lp_preview_" + jobKey
}

// Store is the persistence surface the editor needs. Get methods return
// (nil, nil) when nothing is stored.
type Store interface {
	SaveDraft(ctx context.Context, key string, payload []byte) error
	GetDraft(ctx context.Context, key string) ([]byte, error)
	DeleteDraft(ctx context.Context, key string) error

	SaveSnapshot(ctx context.Context, companyDomain, jobID string, seq int64, payload []byte) error
	LatestSeq(ctx context.Context, companyDomain, jobID string) (int64, error)

	Close()
}

// Memory is the in-process Store used when no DATABASE_URL is configured.
type Memory struct {
	mu        sync.Mutex
	drafts    map[string]memoryDraft
	seqs      map[string]int64
	ttl       time.Duration
	now       func() time.Time
}

type memoryDraft struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemory creates an in-memory store with the default draft TTL.
func NewMemory() *Memory {
	return &Memory{
		drafts: make(map[string]memoryDraft),
		seqs:   make(map[string]int64),
		ttl:    DefaultDraftTTL,
		now:    time.Now,
	}
}

// SaveDraft stores a draft payload, replacing any prior draft for the key.
func (m *Memory) SaveDraft(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[key] = memoryDraft{payload: payload, expiresAt: m.now().Add(m.ttl)}
	return nil
}

// GetDraft returns the stored draft, or (nil, nil) when absent or expired.
func (m *Memory) GetDraft(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[key]
	if !ok || m.now().After(d.expiresAt) {
		delete(m.drafts, key)
		return nil, nil
	}
	return d.payload, nil
}

// DeleteDraft removes a draft.
func (m *Memory) DeleteDraft(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, key)
	return nil
}

// SaveSnapshot records a save; the latest sequence only moves forward.
func (m *Memory) SaveSnapshot(_ context.Context, companyDomain, jobID string, seq int64, _ []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := companyDomain + "_" + jobID
	if seq > m.seqs[k] {
		m.seqs[k] = seq
	}
	return nil
}

// LatestSeq returns the highest recorded save sequence for the record.
func (m *Memory) LatestSeq(_ context.Context, companyDomain, jobID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seqs[companyDomain+"_"+jobID], nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() {}
