package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/saiyolab/lpengine/internal/editor"
	"github.com/saiyolab/lpengine/internal/entity"
	"github.com/saiyolab/lpengine/internal/gas"
	"github.com/saiyolab/lpengine/internal/settings"
	"github.com/saiyolab/lpengine/internal/store"
)

const maxBodySize = 1 << 20 // settings payloads are small; cap request bodies

// handleListCompanies returns every company row.
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.source.Companies(r.Context())
	if err != nil {
		s.bridgeError(w, "failed to list companies", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"companies": companies})
}

// handleListJobs returns the job rows for one company.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")
	jobs, err := s.source.Jobs(r.Context(), domain)
	if err != nil {
		s.bridgeError(w, "failed to list jobs", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// handleSaveJob creates or updates a job row through the bridge.
func (s *Server) handleSaveJob(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")
	var job entity.Job
	if !s.decodeBody(w, r, &job) {
		return
	}
	job.CompanyDomain = domain
	if job.ID == "" {
		s.errorResponse(w, http.StatusBadRequest, "job id is required")
		return
	}
	if err := s.bridge.SaveJob(r.Context(), &job); err != nil {
		s.bridgeError(w, "failed to save job", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"saved": true, "key": job.Key()})
}

// handleDeleteJob removes a job row through the bridge.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")
	jobID := r.PathValue("id")
	if err := s.bridge.DeleteJob(r.Context(), domain, jobID); err != nil {
		s.bridgeError(w, "failed to delete job", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"deleted": true})
}

// handleGetRecruitSettings returns a company's recruit settings.
func (s *Server) handleGetRecruitSettings(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")
	rs, err := s.bridge.GetRecruitSettings(r.Context(), domain)
	if err != nil {
		s.bridgeError(w, "failed to load recruit settings", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rs)
}

// handlePutRecruitSettings validates and saves a company's recruit settings.
// The save runs through an editor session so it picks up validation and the
// same stale-response protection the socket path has.
func (s *Server) handlePutRecruitSettings(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")
	var incoming settings.RecruitSettings
	if !s.decodeBody(w, r, &incoming) {
		return
	}
	incoming.CompanyDomain = domain
	settings.EnsureCustomSectionIDs(&incoming)

	current, err := s.bridge.GetRecruitSettings(r.Context(), domain)
	if err != nil {
		s.bridgeError(w, "failed to load recruit settings", err)
		return
	}
	session, err := editor.NewRecruitSession(current)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	session.Update(func(cur *settings.RecruitSettings) { *cur = incoming })

	if err := s.saver.SaveRecruit(r.Context(), session); err != nil {
		s.saveError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"saved": true})
}

// handleGetLPSettings returns the LP settings for one job.
func (s *Server) handleGetLPSettings(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")
	jobID := r.PathValue("id")
	lp, err := s.bridge.GetLPSettings(r.Context(), domain, jobID)
	if err != nil {
		s.bridgeError(w, "failed to load lp settings", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, lp)
}

// handlePutLPSettings validates and saves the LP settings for one job.
func (s *Server) handlePutLPSettings(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")
	jobID := r.PathValue("id")
	var incoming settings.LPSettings
	if !s.decodeBody(w, r, &incoming) {
		return
	}
	incoming.CompanyDomain = domain
	incoming.JobID = jobID

	current, err := s.bridge.GetLPSettings(r.Context(), domain, jobID)
	if err != nil {
		s.bridgeError(w, "failed to load lp settings", err)
		return
	}
	session, err := editor.NewLPSession(current)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	session.Update(func(cur *settings.LPSettings) { *cur = incoming })

	if err := s.saver.SaveLP(r.Context(), session); err != nil {
		s.saveError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"saved": true})
}

// createPreviewRequest is the POST /api/previews body: an unsaved draft to
// park server-side in exchange for a signed preview link.
type createPreviewRequest struct {
	Kind     string          `json:"kind"` // "lp" or "recruit"
	Key      string          `json:"key"`  // job key or company domain
	Settings json.RawMessage `json:"settings"`
}

// handleCreatePreview stores a draft and returns the signed token for it.
func (s *Server) handleCreatePreview(w http.ResponseWriter, r *http.Request) {
	var req createPreviewRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Key == "" || len(req.Settings) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "key and settings are required")
		return
	}
	switch req.Kind {
	case "lp":
		var draft settings.LPSettings
		if err := json.Unmarshal(req.Settings, &draft); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid lp settings payload")
			return
		}
	case "recruit":
		var draft settings.RecruitSettings
		if err := json.Unmarshal(req.Settings, &draft); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid recruit settings payload")
			return
		}
	default:
		s.errorResponse(w, http.StatusBadRequest, "kind must be lp or recruit")
		return
	}

	key := store.DraftKey(req.Key)
	if err := s.store.SaveDraft(r.Context(), key, req.Settings); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to store draft")
		return
	}
	token, err := s.tokens.Sign(key)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to sign preview token")
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{"token": token})
}

// decodeBody decodes a JSON request body, writing the error response itself.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// bridgeError maps a bridge failure onto a response status.
func (s *Server) bridgeError(w http.ResponseWriter, message string, err error) {
	log.Printf("[API] %s: %v", message, err)
	var gasErr *gas.Error
	if errors.As(err, &gasErr) && gasErr.StatusCode == http.StatusNotFound {
		s.errorResponse(w, http.StatusNotFound, message)
		return
	}
	s.errorResponse(w, http.StatusBadGateway, message)
}

// saveError distinguishes validation failures from upstream failures.
func (s *Server) saveError(w http.ResponseWriter, err error) {
	var valErr *settings.ValidationError
	if errors.As(err, &valErr) {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.bridgeError(w, "failed to save settings", err)
}
