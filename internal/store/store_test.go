package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftKey(t *testing.T) {
	assert.Equal(t, "lp_preview_example_job1", DraftKey("example_job1"))
}

func TestMemoryDrafts(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	got, err := m.GetDraft(ctx, DraftKey("example_job1"))
	require.NoError(t, err)
	assert.Nil(t, got, "missing draft is not an error")

	require.NoError(t, m.SaveDraft(ctx, DraftKey("example_job1"), []byte(`{"heroTitle":"draft"}`)))
	got, err = m.GetDraft(ctx, DraftKey("example_job1"))
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"heroTitle":"draft"}`), got)

	require.NoError(t, m.DeleteDraft(ctx, DraftKey("example_job1")))
	got, err = m.GetDraft(ctx, DraftKey("example_job1"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryDraftExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	clock := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	require.NoError(t, m.SaveDraft(ctx, "k", []byte("v")))

	clock = clock.Add(DefaultDraftTTL + time.Second)
	got, err := m.GetDraft(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got, "expired draft reads as absent")
}

func TestMemorySnapshots(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	seq, err := m.LatestSeq(ctx, "example", "job1")
	require.NoError(t, err)
	assert.Zero(t, seq)

	require.NoError(t, m.SaveSnapshot(ctx, "example", "job1", 3, []byte("{}")))
	require.NoError(t, m.SaveSnapshot(ctx, "example", "job1", 2, []byte("{}")))

	seq, err = m.LatestSeq(ctx, "example", "job1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), seq, "sequence never moves backwards")

	seq, err = m.LatestSeq(ctx, "example", "job2")
	require.NoError(t, err)
	assert.Zero(t, seq, "records are tracked independently")
}
