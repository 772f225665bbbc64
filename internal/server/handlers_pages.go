package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/saiyolab/lpengine/internal/compose"
	"github.com/saiyolab/lpengine/internal/entity"
	"github.com/saiyolab/lpengine/internal/settings"
	"github.com/saiyolab/lpengine/internal/store"
)

// handleLP serves the public landing page for one job.
// Query parameters: c (company domain), j (job id or full job key),
// layoutStyle (optional override), preview (optional signed draft token).
func (s *Server) handleLP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companyDomain, jobID := parseJobRef(q.Get("c"), q.Get("j"))
	if companyDomain == "" || jobID == "" {
		s.errorResponse(w, http.StatusBadRequest, "c and j parameters are required")
		return
	}

	ctx := r.Context()
	var (
		lp      *settings.LPSettings
		rs      *settings.RecruitSettings
		company *entity.Company
		jobs    []entity.Job
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lp, err = s.bridge.GetLPSettings(gCtx, companyDomain, jobID)
		return err
	})
	g.Go(func() error {
		var err error
		rs, err = s.bridge.GetRecruitSettings(gCtx, companyDomain)
		return err
	})
	g.Go(func() error {
		var err error
		company, jobs, err = s.loadEntities(gCtx, companyDomain)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("[PAGE] failed to load lp data for %s_%s: %v", companyDomain, jobID, err)
		s.errorResponse(w, http.StatusBadGateway, "failed to load page data")
		return
	}

	if token := q.Get("preview"); token != "" {
		if draft := s.previewDraftLP(ctx, token, store.DraftKey(companyDomain+"_"+jobID)); draft != nil {
			lp = draft
		}
	}

	cfg := settings.ResolveLP(lp, rs, q.Get("layoutStyle"))

	var pageJobs []entity.Job
	if job := findJob(jobs, jobID); job != nil {
		pageJobs = []entity.Job{*job}
	}

	html := s.composer.Compose(compose.Input{
		Company: company,
		Jobs:    pageJobs,
		Config:  cfg,
	}, compose.Options{
		FullDocument: true,
		AssetVersion: s.assetVer,
		Now:          time.Now(),
	})
	s.htmlResponse(w, html)
}

// handleRecruit serves the public recruit page for one company.
func (s *Server) handleRecruit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companyDomain := q.Get("c")
	if companyDomain == "" {
		s.errorResponse(w, http.StatusBadRequest, "c parameter is required")
		return
	}

	ctx := r.Context()
	var (
		rs      *settings.RecruitSettings
		company *entity.Company
		jobs    []entity.Job
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rs, err = s.bridge.GetRecruitSettings(gCtx, companyDomain)
		return err
	})
	g.Go(func() error {
		var err error
		company, jobs, err = s.loadEntities(gCtx, companyDomain)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("[PAGE] failed to load recruit data for %s: %v", companyDomain, err)
		s.errorResponse(w, http.StatusBadGateway, "failed to load page data")
		return
	}

	if token := q.Get("preview"); token != "" {
		if draft := s.previewDraftRecruit(ctx, token, store.DraftKey(companyDomain)); draft != nil {
			rs = draft
		}
	}

	cfg := settings.ResolveRecruit(rs, q.Get("layoutStyle"))

	html := s.composer.Compose(compose.Input{
		Company: company,
		Jobs:    jobs,
		Config:  cfg,
	}, compose.Options{
		FullDocument: true,
		AssetVersion: s.assetVer,
		Now:          time.Now(),
	})
	s.htmlResponse(w, html)
}

// handleLPSocket upgrades to the LP editing session socket.
func (s *Server) handleLPSocket(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companyDomain, jobID := parseJobRef(q.Get("c"), q.Get("j"))
	if companyDomain == "" || jobID == "" {
		s.errorResponse(w, http.StatusBadRequest, "c and j parameters are required")
		return
	}
	s.hub.ServeLP(w, r, companyDomain, jobID)
}

// handleRecruitSocket upgrades to the recruit-page editing session socket.
func (s *Server) handleRecruitSocket(w http.ResponseWriter, r *http.Request) {
	companyDomain := r.URL.Query().Get("c")
	if companyDomain == "" {
		s.errorResponse(w, http.StatusBadRequest, "c parameter is required")
		return
	}
	s.hub.ServeRecruit(w, r, companyDomain)
}

func (s *Server) htmlResponse(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		log.Printf("Error writing HTML response: %v", err)
	}
}

// loadEntities fetches the company record and its jobs from the entity source.
func (s *Server) loadEntities(ctx context.Context, companyDomain string) (*entity.Company, []entity.Job, error) {
	companies, err := s.source.Companies(ctx)
	if err != nil {
		return nil, nil, err
	}
	var company *entity.Company
	for i := range companies {
		if companies[i].Domain == companyDomain {
			company = &companies[i]
			break
		}
	}
	jobs, err := s.source.Jobs(ctx, companyDomain)
	if err != nil {
		return nil, nil, err
	}
	return company, jobs, nil
}

// previewDraftLP resolves a signed preview token to a stored LP draft.
// Any failure falls back to the published settings rather than erroring the
// page; the preview link may simply have expired.
func (s *Server) previewDraftLP(ctx context.Context, token, wantKey string) *settings.LPSettings {
	raw := s.previewDraftRaw(ctx, token, wantKey)
	if raw == nil {
		return nil
	}
	var draft settings.LPSettings
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil
	}
	return &draft
}

func (s *Server) previewDraftRecruit(ctx context.Context, token, wantKey string) *settings.RecruitSettings {
	raw := s.previewDraftRaw(ctx, token, wantKey)
	if raw == nil {
		return nil
	}
	var draft settings.RecruitSettings
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil
	}
	return &draft
}

// previewDraftRaw verifies the token and loads its draft. The token's draft
// key must match the page being requested; a token minted for another job or
// company must not swap the settings under this one.
func (s *Server) previewDraftRaw(ctx context.Context, token, wantKey string) []byte {
	key, err := s.tokens.Verify(token)
	if err != nil {
		log.Printf("[PAGE] rejected preview token: %v", err)
		return nil
	}
	if key != wantKey {
		log.Printf("[PAGE] preview token for %s rejected on %s", key, wantKey)
		return nil
	}
	raw, err := s.store.GetDraft(ctx, key)
	if err != nil {
		log.Printf("[PAGE] draft lookup failed: %v", err)
		return nil
	}
	return raw
}

// parseJobRef accepts either separate c= and j= values or a full job key
// in j= ("<domain>_<id>"), which is what the public jobs-list links carry.
func parseJobRef(companyDomain, jobRef string) (string, string) {
	if companyDomain != "" {
		return companyDomain, strings.TrimPrefix(jobRef, companyDomain+"_")
	}
	if i := strings.LastIndex(jobRef, "_"); i > 0 {
		return jobRef[:i], jobRef[i+1:]
	}
	return "", ""
}

func findJob(jobs []entity.Job, jobID string) *entity.Job {
	for i := range jobs {
		if jobs[i].ID == jobID {
			return &jobs[i]
		}
	}
	return nil
}
