// Package server provides the HTTP surface of the page engine: the public
// LP and recruit pages, the editor settings API and the live preview socket.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saiyolab/lpengine/internal/cache"
	"github.com/saiyolab/lpengine/internal/compose"
	"github.com/saiyolab/lpengine/internal/editor"
	"github.com/saiyolab/lpengine/internal/entity"
	"github.com/saiyolab/lpengine/internal/gas"
	"github.com/saiyolab/lpengine/internal/preview"
	"github.com/saiyolab/lpengine/internal/server/ratelimit"
	"github.com/saiyolab/lpengine/internal/sheets"
	"github.com/saiyolab/lpengine/internal/store"
)

// EntitySource supplies company and job rows. The Apps Script bridge is the
// default; a direct spreadsheet source can replace it per deployment.
type EntitySource interface {
	Companies(ctx context.Context) ([]entity.Company, error)
	Jobs(ctx context.Context, companyDomain string) ([]entity.Job, error)
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	bridge      *gas.Client
	source      EntitySource
	composer    *compose.Composer
	saver       *editor.Saver
	store       store.Store
	tokens      *preview.TokenService
	hub         *preview.Hub
	rateLimiter *ratelimit.Limiter
	assetVer    string
}

// Config holds server configuration.
type Config struct {
	Port          int
	GASEndpoint   string
	DatabaseURL   string // optional; empty keeps drafts in memory
	RedisAddr     string // optional; empty keeps the settings cache in memory
	SheetsAPIKey  string // optional; with SpreadsheetID, read rows directly
	SpreadsheetID string
	PreviewSecret string
	AssetVersion  string
}

// New creates a new server instance.
func New(cfg Config) (*Server, error) {
	if cfg.GASEndpoint == "" {
		return nil, fmt.Errorf("bridge endpoint is required")
	}

	var settingsCache cache.Store
	if cfg.RedisAddr != "" {
		settingsCache = cache.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), cache.DefaultTTL)
	} else {
		settingsCache = cache.NewMemory(cache.DefaultTTL)
	}

	var draftStore store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		draftStore = pg
	} else {
		draftStore = store.NewMemory()
	}

	bridge := gas.New(cfg.GASEndpoint, settingsCache)

	var source EntitySource = bridgeSource{bridge}
	if cfg.SheetsAPIKey != "" && cfg.SpreadsheetID != "" {
		direct, err := sheets.NewSource(context.Background(), cfg.SheetsAPIKey, cfg.SpreadsheetID)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets source: %w", err)
		}
		source = direct
	}

	tokens := preview.NewTokenService(cfg.PreviewSecret, preview.DefaultTokenTTL)
	saver := editor.NewSaver(bridge, draftStore)

	s := &Server{
		bridge:   bridge,
		source:   source,
		composer: compose.New(),
		saver:    saver,
		store:    draftStore,
		tokens:   tokens,
		hub:      preview.NewHub(bridge, saver, draftStore, tokens),
		assetVer: cfg.AssetVersion,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	mux := http.NewServeMux()

	// Public pages
	mux.HandleFunc("GET /lp", s.handleLP)
	mux.HandleFunc("GET /recruit", s.handleRecruit)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Editor preview sockets
	mux.HandleFunc("GET /ws/lp", s.handleLPSocket)
	mux.HandleFunc("GET /ws/recruit", s.handleRecruitSocket)

	// Settings API
	mux.HandleFunc("GET /api/companies", s.handleListCompanies)
	mux.HandleFunc("GET /api/companies/{domain}/jobs", s.handleListJobs)
	mux.HandleFunc("POST /api/companies/{domain}/jobs", s.handleSaveJob)
	mux.HandleFunc("DELETE /api/companies/{domain}/jobs/{id}", s.handleDeleteJob)
	mux.HandleFunc("GET /api/companies/{domain}/recruit-settings", s.handleGetRecruitSettings)
	mux.HandleFunc("PUT /api/companies/{domain}/recruit-settings", s.handlePutRecruitSettings)
	mux.HandleFunc("GET /api/companies/{domain}/jobs/{id}/lp-settings", s.handleGetLPSettings)
	mux.HandleFunc("PUT /api/companies/{domain}/jobs/{id}/lp-settings", s.handlePutLPSettings)

	// Preview drafts
	mux.HandleFunc("POST /api/previews", s.handleCreatePreview)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.store.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers for the editor frontend.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// bridgeSource adapts the Apps Script bridge to the EntitySource interface.
type bridgeSource struct {
	client *gas.Client
}

func (b bridgeSource) Companies(ctx context.Context) ([]entity.Company, error) {
	return b.client.GetCompanies(ctx)
}

func (b bridgeSource) Jobs(ctx context.Context, companyDomain string) ([]entity.Job, error) {
	return b.client.GetJobs(ctx, companyDomain)
}
