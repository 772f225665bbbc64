package preview

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Sign("lp_preview_example_job1")
	require.NoError(t, err)

	key, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "lp_preview_example_job1", key)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Sign("lp_preview_example_job1")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)
	// Negative ttl falls back to the default, so force a short-lived service.
	svc.ttl = -time.Minute

	token, err := svc.Sign("lp_preview_example_job1")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err, "expired tokens are rejected")
}

func TestTokenGarbage(t *testing.T) {
	_, err := NewTokenService("test-secret", time.Hour).Verify("not.a.token")
	assert.Error(t, err)
}

func TestDriverDebounceCoalesces(t *testing.T) {
	var renders atomic.Int32
	d := NewDriver(
		func() string { renders.Add(1); return "<div></div>" },
		func(string) {},
	)

	// A burst of edits inside the debounce window renders once.
	for i := 0; i < 10; i++ {
		d.Input()
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, int32(0), renders.Load(), "no render while edits keep arriving")

	require.Eventually(t, func() bool { return renders.Load() == 1 },
		2*time.Second, 20*time.Millisecond)

	time.Sleep(2 * DebounceInterval)
	assert.Equal(t, int32(1), renders.Load(), "the burst produced exactly one render")
}

func TestDriverFlushBypassesDebounce(t *testing.T) {
	var got string
	d := NewDriver(
		func() string { return "<div>rendered</div>" },
		func(html string) { got = html },
	)
	d.Flush()
	assert.Equal(t, "<div>rendered</div>", got)
}

func TestDriverVisibilityGate(t *testing.T) {
	var renders atomic.Int32
	d := NewDriver(
		func() string { renders.Add(1); return "" },
		func(string) {},
	)

	d.SetVisible(false)
	d.Flush()
	assert.Equal(t, int32(0), renders.Load(), "hidden surface suppresses render work")

	d.SetVisible(true)
	assert.Equal(t, int32(1), renders.Load(), "showing the surface catches up immediately")

	d.SetVisible(true)
	assert.Equal(t, int32(1), renders.Load(), "no render when visibility does not change")
}
