package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiyolab/lpengine/internal/settings"
)

func newLPSession(t *testing.T) *LPSession {
	t.Helper()
	s, err := NewLPSession(&settings.LPSettings{CompanyDomain: "example", JobID: "job1"})
	require.NoError(t, err)
	return s
}

func TestLPSessionDirty(t *testing.T) {
	s := newLPSession(t)
	assert.False(t, s.Dirty(), "fresh session is clean")

	s.Update(func(lp *settings.LPSettings) { lp.HeroTitle = "編集した" })
	assert.True(t, s.Dirty())

	s.Update(func(lp *settings.LPSettings) { lp.HeroTitle = "" })
	assert.False(t, s.Dirty(), "reverting the edit makes it clean again")
}

func TestLPSessionDraftIsCopy(t *testing.T) {
	s := newLPSession(t)
	d := s.Draft()
	d.HeroTitle = "外から書き換え"
	assert.False(t, s.Dirty(), "mutating the returned draft does not touch the session")
}

func TestLPSessionReset(t *testing.T) {
	s := newLPSession(t)
	s.Update(func(lp *settings.LPSettings) { lp.HeroTitle = "編集した" })
	s.Reset()
	assert.False(t, s.Dirty())
	assert.Empty(t, s.Draft().HeroTitle)
}

func TestLPSessionBeginSaveValidates(t *testing.T) {
	s, err := NewLPSession(&settings.LPSettings{})
	require.NoError(t, err)
	_, _, err = s.BeginSave()
	assert.Error(t, err, "missing keys block the save before any network call")
}

func TestLPSessionSaveSequencing(t *testing.T) {
	s := newLPSession(t)

	s.Update(func(lp *settings.LPSettings) { lp.HeroTitle = "一回目" })
	seq1, payload1, err := s.BeginSave()
	require.NoError(t, err)

	s.Update(func(lp *settings.LPSettings) { lp.HeroTitle = "二回目" })
	seq2, payload2, err := s.BeginSave()
	require.NoError(t, err)
	assert.Greater(t, seq2, seq1)

	// The second (newer) response lands first.
	assert.True(t, s.CompleteSave(seq2, payload2))
	assert.False(t, s.CompleteSave(seq1, payload1), "late response for the older save is discarded")

	assert.False(t, s.Dirty(), "last-saved state reflects the newer payload")
}

func TestLPSessionCompleteSaveMovesBaseline(t *testing.T) {
	s := newLPSession(t)
	s.Update(func(lp *settings.LPSettings) { lp.HeroTitle = "保存する" })
	seq, payload, err := s.BeginSave()
	require.NoError(t, err)
	require.True(t, s.CompleteSave(seq, payload))
	assert.False(t, s.Dirty())

	s.Reset()
	assert.Equal(t, "保存する", s.Draft().HeroTitle, "reset restores the saved state, not the initial one")
}

func TestRecruitSessionRoundTrip(t *testing.T) {
	s, err := NewRecruitSession(&settings.RecruitSettings{CompanyDomain: "example"})
	require.NoError(t, err)
	assert.False(t, s.Dirty())

	s.Update(func(rs *settings.RecruitSettings) {
		rs.CustomSections = append(rs.CustomSections, settings.CustomSection{Type: "text", Content: "本文"})
		settings.EnsureCustomSectionIDs(rs)
	})
	assert.True(t, s.Dirty())

	seq, payload, err := s.BeginSave()
	require.NoError(t, err)
	require.True(t, s.CompleteSave(seq, payload))
	assert.False(t, s.Dirty())
}
