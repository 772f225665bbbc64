package editor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiyolab/lpengine/internal/gas"
	"github.com/saiyolab/lpengine/internal/settings"
	"github.com/saiyolab/lpengine/internal/store"
)

func bridgeStub(t *testing.T, succeed bool) (*gas.Client, *int) {
	t.Helper()
	calls := new(int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*calls++
		if succeed {
			json.NewEncoder(w).Encode(map[string]any{"success": true})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "sheet locked"})
	}))
	t.Cleanup(srv.Close)
	return gas.New(srv.URL, nil), calls
}

func TestSaveLP(t *testing.T) {
	bridge, calls := bridgeStub(t, true)
	st := store.NewMemory()
	sv := NewSaver(bridge, st)

	session, err := NewLPSession(&settings.LPSettings{CompanyDomain: "example", JobID: "job1"})
	require.NoError(t, err)
	session.Update(func(lp *settings.LPSettings) { lp.HeroTitle = "保存テスト" })

	require.NoError(t, sv.SaveLP(context.Background(), session))
	assert.Equal(t, 1, *calls)
	assert.False(t, session.Dirty())

	seq, err := st.LatestSeq(context.Background(), "example", "job1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq, "snapshot recorded with the save sequence")
}

func TestSaveLPBridgeFailureKeepsDraft(t *testing.T) {
	bridge, _ := bridgeStub(t, false)
	sv := NewSaver(bridge, nil)

	session, err := NewLPSession(&settings.LPSettings{CompanyDomain: "example", JobID: "job1"})
	require.NoError(t, err)
	session.Update(func(lp *settings.LPSettings) { lp.HeroTitle = "失敗する保存" })

	err = sv.SaveLP(context.Background(), session)
	require.Error(t, err)
	var gasErr *gas.Error
	assert.ErrorAs(t, err, &gasErr)
	assert.True(t, session.Dirty(), "failed save leaves the draft intact for retry")
}

func TestSaveLPValidationFailureSkipsBridge(t *testing.T) {
	bridge, calls := bridgeStub(t, true)
	sv := NewSaver(bridge, nil)

	session, err := NewLPSession(&settings.LPSettings{})
	require.NoError(t, err)

	err = sv.SaveLP(context.Background(), session)
	require.Error(t, err)
	var valErr *settings.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Zero(t, *calls, "invalid drafts never reach the bridge")
}

func TestSaveRecruit(t *testing.T) {
	bridge, _ := bridgeStub(t, true)
	st := store.NewMemory()
	sv := NewSaver(bridge, st)

	session, err := NewRecruitSession(&settings.RecruitSettings{CompanyDomain: "example"})
	require.NoError(t, err)
	session.Update(func(rs *settings.RecruitSettings) { rs.SiteTitle = "テスト採用" })

	require.NoError(t, sv.SaveRecruit(context.Background(), session))
	assert.False(t, session.Dirty())

	seq, err := st.LatestSeq(context.Background(), "example", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}
