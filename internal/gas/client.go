// Package gas is the client for the Google Apps Script bridge: the GET-based
// JSON proxy in front of the spreadsheet-backed data. Reads are plain query
// actions; writes are GET requests carrying a base64-encoded JSON payload, a
// workaround for cross-origin POST restrictions on the script host that the
// bridge contract requires exactly.
package gas

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/saiyolab/lpengine/internal/cache"
	"github.com/saiyolab/lpengine/internal/entity"
	"github.com/saiyolab/lpengine/internal/settings"
)

// DefaultTimeout bounds a single bridge request.
const DefaultTimeout = 30 * time.Second

// Client talks to one bridge endpoint. The optional cache short-circuits
// settings reads; list fetches use an abort-per-resource pattern so only the
// most recent request's result is ever applied.
type Client struct {
	endpoint   string
	httpClient *http.Client
	cache      cache.Store

	mu       sync.Mutex
	inflight map[string]*inflightEntry
}

// inflightEntry identifies one registered fetch so its done func only removes
// its own map entry.
type inflightEntry struct {
	cancel context.CancelFunc
}

// New creates a bridge client. cacheStore may be nil to disable caching.
func New(endpoint string, cacheStore cache.Store) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		cache:      cacheStore,
		inflight:   make(map[string]*inflightEntry),
	}
}

// envelope is the bridge's uniform response shape.
type envelope struct {
	Success   bool             `json:"success"`
	Error     string           `json:"error"`
	Settings  json.RawMessage  `json:"settings"`
	Companies []entity.Company `json:"companies"`
	Jobs      []entity.Job     `json:"jobs"`
}

// EncodePayload encodes a write payload the way the bridge expects:
// standard base64 over the raw UTF-8 JSON bytes, mirroring the browser's
// btoa(unescape(encodeURIComponent(JSON.stringify(p)))). Percent-encoding
// for the query string happens separately in url.Values.
func EncodePayload(payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// get performs one bridge GET and decodes the envelope.
func (c *Client) get(ctx context.Context, op string, params url.Values) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &Error{Op: op, Message: "failed to build request", Cause: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Op: op, Message: "unexpected status", StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, &Error{Op: op, Message: "failed to read response", Cause: err}
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &Error{Op: op, Message: "unparsable response body", Cause: err}
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "bridge reported failure"
		}
		return nil, &Error{Op: op, Message: msg}
	}
	return &env, nil
}

// post sends a write action through the encoded-payload channel.
func (c *Client) post(ctx context.Context, action string, payload map[string]any) error {
	payload["action"] = action
	data, err := EncodePayload(payload)
	if err != nil {
		return &Error{Op: action, Message: "failed to encode payload", Cause: err}
	}
	params := url.Values{}
	params.Set("action", "post")
	params.Set("data", data)
	_, err = c.get(ctx, action, params)
	return err
}

// GetRecruitSettings loads a company's recruit settings, serving from cache
// within the TTL. Legacy custom-section ids are migrated to stable ids
// before the record is returned.
func (c *Client) GetRecruitSettings(ctx context.Context, companyDomain string) (*settings.RecruitSettings, error) {
	key := "recruit:" + companyDomain
	if c.cache != nil {
		if raw, ok := c.cache.Get(ctx, key); ok {
			var rs settings.RecruitSettings
			if err := json.Unmarshal(raw, &rs); err == nil {
				return &rs, nil
			}
			c.cache.Delete(ctx, key)
		}
	}
	params := url.Values{}
	params.Set("action", "getRecruitSettings")
	params.Set("companyDomain", companyDomain)
	env, err := c.get(ctx, "getRecruitSettings", params)
	if err != nil {
		return nil, err
	}
	rs := &settings.RecruitSettings{CompanyDomain: companyDomain}
	if len(env.Settings) > 0 {
		if err := json.Unmarshal(env.Settings, rs); err != nil {
			return nil, &Error{Op: "getRecruitSettings", Message: "malformed settings record", Cause: err}
		}
	}
	settings.EnsureCustomSectionIDs(rs)
	c.cachePut(ctx, key, rs)
	return rs, nil
}

// GetLPSettings loads a job's LP settings, serving from cache within the TTL.
func (c *Client) GetLPSettings(ctx context.Context, companyDomain, jobID string) (*settings.LPSettings, error) {
	key := "lp:" + companyDomain + "_" + jobID
	if c.cache != nil {
		if raw, ok := c.cache.Get(ctx, key); ok {
			var lp settings.LPSettings
			if err := json.Unmarshal(raw, &lp); err == nil {
				return &lp, nil
			}
			c.cache.Delete(ctx, key)
		}
	}
	params := url.Values{}
	params.Set("action", "getLPSettings")
	params.Set("companyDomain", companyDomain)
	params.Set("jobId", jobID)
	env, err := c.get(ctx, "getLPSettings", params)
	if err != nil {
		return nil, err
	}
	lp := &settings.LPSettings{CompanyDomain: companyDomain, JobID: jobID}
	if len(env.Settings) > 0 {
		if err := json.Unmarshal(env.Settings, lp); err != nil {
			return nil, &Error{Op: "getLPSettings", Message: "malformed settings record", Cause: err}
		}
	}
	c.cachePut(ctx, key, lp)
	return lp, nil
}

// GetCompanies lists all companies. Starting a new fetch cancels a prior
// in-flight one, so a stale response can never overtake a newer request.
func (c *Client) GetCompanies(ctx context.Context) ([]entity.Company, error) {
	ctx, done := c.supersede(ctx, "companies")
	defer done()
	params := url.Values{}
	params.Set("action", "getCompanies")
	env, err := c.get(ctx, "getCompanies", params)
	if err != nil {
		return nil, err
	}
	return env.Companies, nil
}

// GetJobs lists a company's jobs, with the same abort-per-resource rule.
func (c *Client) GetJobs(ctx context.Context, companyDomain string) ([]entity.Job, error) {
	ctx, done := c.supersede(ctx, "jobs:"+companyDomain)
	defer done()
	params := url.Values{}
	params.Set("action", "getJobs")
	params.Set("companyDomain", companyDomain)
	env, err := c.get(ctx, "getJobs", params)
	if err != nil {
		return nil, err
	}
	return env.Jobs, nil
}

// SaveLPSettings persists a job's LP settings and refreshes the cache entry
// on success.
func (c *Client) SaveLPSettings(ctx context.Context, lp *settings.LPSettings) error {
	if err := c.post(ctx, "saveLPSettings", map[string]any{"settings": lp}); err != nil {
		return err
	}
	c.cachePut(ctx, "lp:"+lp.CompanyDomain+"_"+lp.JobID, lp)
	return nil
}

// UpdateRecruitSettings persists a company's recruit settings and refreshes
// the cache entry on success.
func (c *Client) UpdateRecruitSettings(ctx context.Context, rs *settings.RecruitSettings) error {
	if err := c.post(ctx, "updateRecruitSettings", map[string]any{"settings": rs}); err != nil {
		return err
	}
	c.cachePut(ctx, "recruit:"+rs.CompanyDomain, rs)
	return nil
}

// SaveCompany persists a company record.
func (c *Client) SaveCompany(ctx context.Context, company *entity.Company) error {
	return c.post(ctx, "saveCompany", map[string]any{"company": company})
}

// SaveJob persists a job record.
func (c *Client) SaveJob(ctx context.Context, job *entity.Job) error {
	return c.post(ctx, "saveJob", map[string]any{"job": job})
}

// DeleteJob removes a job record.
func (c *Client) DeleteJob(ctx context.Context, companyDomain, jobID string) error {
	return c.post(ctx, "deleteJob", map[string]any{"companyDomain": companyDomain, "jobId": jobID})
}

// cachePut stores a record in the cache, ignoring marshal failures: the
// cache is an optimization and must never fail an operation that succeeded.
func (c *Client) cachePut(ctx context.Context, key string, value any) {
	if c.cache == nil {
		return
	}
	if raw, err := json.Marshal(value); err == nil {
		c.cache.Set(ctx, key, raw)
	}
}

// supersede cancels any in-flight request for the resource and registers a
// cancel for the new one. The returned done func releases the entry once the
// fetch finishes, unless a newer fetch already replaced it.
func (c *Client) supersede(ctx context.Context, resource string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	entry := &inflightEntry{cancel: cancel}
	c.mu.Lock()
	if prior, ok := c.inflight[resource]; ok {
		prior.cancel()
	}
	c.inflight[resource] = entry
	c.mu.Unlock()

	return ctx, func() {
		cancel()
		c.mu.Lock()
		if c.inflight[resource] == entry {
			delete(c.inflight, resource)
		}
		c.mu.Unlock()
	}
}
