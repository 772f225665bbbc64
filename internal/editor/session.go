// Package editor holds the in-memory editing state of one settings record:
// the working draft, the last-saved snapshot it is diffed against, and the
// save sequencing that protects against out-of-order save responses. All
// state lives on the session object; there are no package-level caches, so
// any number of independent editor sessions can coexist.
package editor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/saiyolab/lpengine/internal/settings"
)

// seqGate hands out monotonically increasing save sequence numbers and
// refuses to apply a response whose sequence is older than the newest one
// already applied. This closes the last-write-wins race where a slow first
// save could overwrite the cache entry of a faster second save.
type seqGate struct {
	next    int64
	applied int64
}

func (g *seqGate) begin() int64 {
	g.next++
	return g.next
}

func (g *seqGate) complete(seq int64) bool {
	if seq <= g.applied {
		return false
	}
	g.applied = seq
	return true
}

// LPSession is the editing state for one job's LP settings.
type LPSession struct {
	mu    sync.Mutex
	draft settings.LPSettings
	saved []byte
	gate  seqGate
}

// NewLPSession starts a session with the loaded record as both the draft
// and the last-saved baseline.
func NewLPSession(initial *settings.LPSettings) (*LPSession, error) {
	if initial == nil {
		initial = &settings.LPSettings{}
	}
	saved, err := json.Marshal(initial)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot initial settings: %w", err)
	}
	return &LPSession{draft: *initial, saved: saved}, nil
}

// Draft returns a deep copy of the working draft.
func (s *LPSession) Draft() *settings.LPSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLP(&s.draft)
}

// Update applies an edit to the draft under the session lock.
func (s *LPSession) Update(fn func(*settings.LPSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.draft)
}

// Dirty reports whether the draft differs from the last-saved state. This
// gates the save/reset actions and the unsaved-changes warning.
func (s *LPSession) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := json.Marshal(&s.draft)
	if err != nil {
		return true
	}
	return !bytes.Equal(current, s.saved)
}

// BeginSave validates the draft and, when valid, returns the save sequence
// number together with an immutable payload copy. Validation failures block
// the save before any network call.
func (s *LPSession) BeginSave() (int64, *settings.LPSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.draft.Validate(); err != nil {
		return 0, nil, err
	}
	return s.gate.begin(), cloneLP(&s.draft), nil
}

// CompleteSave records a successful save response. It returns false when a
// newer save was already applied, in which case the last-saved state is
// left untouched and the response must be discarded.
func (s *LPSession) CompleteSave(seq int64, payload *settings.LPSettings) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gate.complete(seq) {
		return false
	}
	if saved, err := json.Marshal(payload); err == nil {
		s.saved = saved
	}
	return true
}

// Reset discards the draft and restores the last-saved state.
func (s *LPSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var restored settings.LPSettings
	if err := json.Unmarshal(s.saved, &restored); err == nil {
		s.draft = restored
	}
}

// RecruitSession is the editing state for one company's recruit settings.
type RecruitSession struct {
	mu    sync.Mutex
	draft settings.RecruitSettings
	saved []byte
	gate  seqGate
}

// NewRecruitSession starts a session with the loaded record as both the
// draft and the last-saved baseline.
func NewRecruitSession(initial *settings.RecruitSettings) (*RecruitSession, error) {
	if initial == nil {
		initial = &settings.RecruitSettings{}
	}
	saved, err := json.Marshal(initial)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot initial settings: %w", err)
	}
	return &RecruitSession{draft: *initial, saved: saved}, nil
}

// Draft returns a deep copy of the working draft.
func (s *RecruitSession) Draft() *settings.RecruitSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecruit(&s.draft)
}

// Update applies an edit to the draft under the session lock.
func (s *RecruitSession) Update(fn func(*settings.RecruitSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.draft)
}

// Dirty reports whether the draft differs from the last-saved state.
func (s *RecruitSession) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := json.Marshal(&s.draft)
	if err != nil {
		return true
	}
	return !bytes.Equal(current, s.saved)
}

// BeginSave validates the draft and returns the save sequence number with
// an immutable payload copy.
func (s *RecruitSession) BeginSave() (int64, *settings.RecruitSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.draft.Validate(); err != nil {
		return 0, nil, err
	}
	return s.gate.begin(), cloneRecruit(&s.draft), nil
}

// CompleteSave records a successful save response, discarding stale ones.
func (s *RecruitSession) CompleteSave(seq int64, payload *settings.RecruitSettings) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gate.complete(seq) {
		return false
	}
	if saved, err := json.Marshal(payload); err == nil {
		s.saved = saved
	}
	return true
}

// Reset discards the draft and restores the last-saved state.
func (s *RecruitSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var restored settings.RecruitSettings
	if err := json.Unmarshal(s.saved, &restored); err == nil {
		s.draft = restored
	}
}

// cloneLP deep-copies a record through its JSON form, which covers every
// nested slice without per-field copy code.
func cloneLP(in *settings.LPSettings) *settings.LPSettings {
	raw, err := json.Marshal(in)
	if err != nil {
		copied := *in
		return &copied
	}
	var out settings.LPSettings
	if err := json.Unmarshal(raw, &out); err != nil {
		copied := *in
		return &copied
	}
	return &out
}

func cloneRecruit(in *settings.RecruitSettings) *settings.RecruitSettings {
	raw, err := json.Marshal(in)
	if err != nil {
		copied := *in
		return &copied
	}
	var out settings.RecruitSettings
	if err := json.Unmarshal(raw, &out); err != nil {
		copied := *in
		return &copied
	}
	return &out
}
