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
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/skill-intel/internal/catalog"
	"github.com/jonathan/skill-intel/internal/db"
	"github.com/jonathan/skill-intel/internal/extract"
	"github.com/jonathan/skill-intel/internal/ingest"
	"github.com/jonathan/skill-intel/internal/server/ratelimit"
	"github.com/jonathan/skill-intel/internal/trends"
)

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	catalog     *catalog.Catalog
	extractor   *extract.Extractor
	store       trends.Store
	engine      *trends.Engine
	github      *ingest.GitHubService
	jobs        *ingest.JobPostingService
	rateLimiter *ratelimit.Limiter
	corsOrigins []string
	database    *db.DB // non-nil only with the PostgreSQL snapshot store
}

// Config holds server configuration.
type Config struct {
	Port        int
	CatalogPath string
	SchemaPath  string
	DataDir     string
	DatabaseURL string // empty selects the file-backed snapshot store
	CORSOrigins []string
}

// New creates a new server instance. A catalog that fails to load is fatal:
// the service cannot match anything without its vocabulary.
func New(cfg Config) (*Server, error) {
	cat, err := catalog.Load(cfg.CatalogPath, cfg.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load skill catalog: %w", err)
	}

	s := &Server{
		catalog:     cat,
		extractor:   extract.New(cat),
		corsOrigins: cfg.CORSOrigins,
	}
	s.github = ingest.NewGitHubService(s.extractor)
	s.jobs = ingest.NewJobPostingService(s.extractor)

	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		s.database = database
		s.store = db.NewSnapshotStore(database)
	} else {
		store, err := trends.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}
		s.store = store
	}
	s.engine = trends.NewEngine(s.store)

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/", s.handleRoot)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/extract-skills", s.handleExtractSkills)
	mux.HandleFunc("GET /api/skills", s.handleListSkills)
	mux.HandleFunc("POST /api/github/ingest", s.handleGitHubIngest)
	mux.HandleFunc("POST /api/job-postings/ingest", s.handleJobPostingsIngest)
	mux.HandleFunc("POST /api/trends/store", s.handleTrendStore)
	mux.HandleFunc("POST /api/trends/analyze", s.handleTrendAnalyze)
	mux.HandleFunc("GET /api/trends/periods", s.handleListPeriods)
	mux.HandleFunc("DELETE /api/trends/periods", s.handleClearPeriods)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler exposes the middleware-wrapped route handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
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
	if s.database != nil {
		s.database.Close()
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers and answers preflight requests.
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowed := "*"
	if len(s.corsOrigins) > 0 {
		allowed = strings.Join(s.corsOrigins, ", ")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowed)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging with a per-request id.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		log.Printf("[%s] %s %s %s", r.Method, r.URL.Path, r.RemoteAddr, requestID)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v %s", r.Method, r.URL.Path, time.Since(start), requestID)
	})
}

// withRateLimit adds rate limiting middleware.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRoot describes the API.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "Skill Intelligence API",
		"version": "1.0.0",
		"status":  "active",
	})
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

// extractClientID extracts the client identifier from the request. For now
// this is the IP from RemoteAddr; X-Forwarded-For handling belongs behind a
// trusted proxy setting.
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
	response := map[string]any{
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
