package editor

import (
	"context"
	"encoding/json"
	"log"

	"github.com/saiyolab/lpengine/internal/gas"
	"github.com/saiyolab/lpengine/internal/store"
)

// Saver pushes session drafts through the bridge and records snapshots.
// On any failure the session draft is untouched so the user can retry
// without re-entering data.
type Saver struct {
	bridge *gas.Client
	store  store.Store
}

// NewSaver wires a saver. st may be nil to skip snapshot recording.
func NewSaver(bridge *gas.Client, st store.Store) *Saver {
	return &Saver{bridge: bridge, store: st}
}

// SaveLP validates and persists an LP session's draft. A response arriving
// after a newer save has completed is discarded and does not move the
// last-saved state.
func (sv *Saver) SaveLP(ctx context.Context, session *LPSession) error {
	seq, payload, err := session.BeginSave()
	if err != nil {
		return err
	}
	if err := sv.bridge.SaveLPSettings(ctx, payload); err != nil {
		return err
	}
	if !session.CompleteSave(seq, payload) {
		log.Printf("[EDITOR] discarding stale save response seq=%d for %s_%s", seq, payload.CompanyDomain, payload.JobID)
		return nil
	}
	sv.snapshot(ctx, payload.CompanyDomain, payload.JobID, seq, payload)
	return nil
}

// SaveRecruit validates and persists a recruit session's draft.
func (sv *Saver) SaveRecruit(ctx context.Context, session *RecruitSession) error {
	seq, payload, err := session.BeginSave()
	if err != nil {
		return err
	}
	if err := sv.bridge.UpdateRecruitSettings(ctx, payload); err != nil {
		return err
	}
	if !session.CompleteSave(seq, payload) {
		log.Printf("[EDITOR] discarding stale save response seq=%d for %s", seq, payload.CompanyDomain)
		return nil
	}
	sv.snapshot(ctx, payload.CompanyDomain, "", seq, payload)
	return nil
}

// snapshot records the save in the store; failures are logged only, the
// save itself already succeeded.
func (sv *Saver) snapshot(ctx context.Context, companyDomain, jobID string, seq int64, payload any) {
	if sv.store == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := sv.store.SaveSnapshot(ctx, companyDomain, jobID, seq, raw); err != nil {
		log.Printf("[EDITOR] snapshot failed for %s/%s: %v", companyDomain, jobID, err)
	}
}
