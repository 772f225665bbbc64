package gas

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiyolab/lpengine/internal/cache"
	"github.com/saiyolab/lpengine/internal/settings"
)

func TestEncodePayload(t *testing.T) {
	// The bridge decodes with Utilities.base64Decode over UTF-8 bytes, so the
	// encoding must be standard base64 of the raw JSON, multibyte included.
	enc, err := EncodePayload(map[string]string{"heroTitle": "一緒に働こう"})
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(enc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"heroTitle":"一緒に働こう"}`, string(decoded))
}

func TestGetRecruitSettings(t *testing.T) {
	var gotAction, gotDomain string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.URL.Query().Get("action")
		gotDomain = r.URL.Query().Get("companyDomain")
		json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"settings": map[string]any{"companyDomain": "example", "siteTitle": "テスト採用"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	rs, err := c.GetRecruitSettings(context.Background(), "example")
	require.NoError(t, err)
	assert.Equal(t, "getRecruitSettings", gotAction)
	assert.Equal(t, "example", gotDomain)
	assert.Equal(t, "テスト採用", rs.SiteTitle)
}

func TestGetRecruitSettingsMigratesCustomIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"settings": map[string]any{
				"companyDomain":  "example",
				"customSections": []map[string]any{{"id": "custom-0", "type": "message", "content": "x"}},
				"sectionOrder":   "hero,custom-0,apply",
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	rs, err := c.GetRecruitSettings(context.Background(), "example")
	require.NoError(t, err)
	require.Len(t, rs.CustomSections, 1)
	assert.NotEqual(t, "custom-0", rs.CustomSections[0].ID, "positional id replaced on load")
	assert.Contains(t, rs.SectionOrder, rs.CustomSections[0].ID)
}

func TestGetRecruitSettingsCached(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"settings": map[string]any{"companyDomain": "example"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, cache.NewMemory(time.Minute))
	_, err := c.GetRecruitSettings(context.Background(), "example")
	require.NoError(t, err)
	_, err = c.GetRecruitSettings(context.Background(), "example")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second read served from cache")
}

func TestGetLPSettingsEmptyRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	lp, err := c.GetLPSettings(context.Background(), "example", "job1")
	require.NoError(t, err)
	assert.Equal(t, "example", lp.CompanyDomain, "keys backfilled on a fresh record")
	assert.Equal(t, "job1", lp.JobID)
}

func TestBridgeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "job not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.GetJobs(context.Background(), "example")
	require.Error(t, err)
	var gasErr *Error
	require.ErrorAs(t, err, &gasErr)
	assert.Equal(t, "job not found", gasErr.Message)
	assert.Equal(t, "getJobs", gasErr.Op)
}

func TestBridgeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.GetCompanies(context.Background())
	var gasErr *Error
	require.ErrorAs(t, err, &gasErr)
	assert.Equal(t, http.StatusBadGateway, gasErr.StatusCode)
}

func TestSaveLPSettingsEncoding(t *testing.T) {
	var gotQuery, gotData string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("action")
		gotData = r.URL.Query().Get("data")
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	lp := &settings.LPSettings{CompanyDomain: "example", JobID: "job1", HeroTitle: "働こう"}
	require.NoError(t, c.SaveLPSettings(context.Background(), lp))

	assert.Equal(t, "post", gotQuery, "writes travel as action=post")

	decoded, err := base64.StdEncoding.DecodeString(gotData)
	require.NoError(t, err)

	var payload struct {
		Action   string              `json:"action"`
		Settings settings.LPSettings `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(decoded, &payload))
	assert.Equal(t, "saveLPSettings", payload.Action)
	assert.Equal(t, "働こう", payload.Settings.HeroTitle)
}

func TestSaveRefreshesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	mem := cache.NewMemory(time.Minute)
	c := New(srv.URL, mem)
	lp := &settings.LPSettings{CompanyDomain: "example", JobID: "job1", HeroTitle: "更新後"}
	require.NoError(t, c.SaveLPSettings(context.Background(), lp))

	raw, ok := mem.Get(context.Background(), "lp:example_job1")
	require.True(t, ok)
	var cached settings.LPSettings
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.Equal(t, "更新後", cached.HeroTitle)
}

func TestSupersedeCancelsPriorFetch(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "jobs": []any{}})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := c.GetJobs(context.Background(), "example")
		errCh <- err
	}()

	// Give the first request time to reach the handler, then supersede it.
	time.Sleep(50 * time.Millisecond)
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(release)
	}()
	_, err := c.GetJobs(context.Background(), "example")
	require.NoError(t, err, "the newer fetch completes")

	select {
	case err := <-errCh:
		assert.Error(t, err, "the superseded fetch is canceled")
	case <-time.After(2 * time.Second):
		t.Fatal("superseded fetch never returned")
	}
}

func TestCompletedFetchReleasesInflight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "jobs": []any{}})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	for _, domain := range []string{"alpha", "beta", "gamma"} {
		_, err := c.GetJobs(context.Background(), domain)
		require.NoError(t, err)
	}
	_, err := c.GetCompanies(context.Background())
	require.NoError(t, err)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Empty(t, c.inflight, "finished fetches release their cancel entries")
}
