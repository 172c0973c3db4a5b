// Package api exposes the contact directory over HTTP/JSON.
//
// Routes:
//
//	GET  /health                  → liveness probe
//	GET  /api/v1/contacts/search  → filtered, paginated directory search
//	POST /api/v1/links            → save a tenant→contact workspace link
//	GET  /api/v1/links            → list a tenant's links with joined contacts
//
// Every paginated response uses the shared envelope
// {data, total_count, page, page_size, total_pages}.
package api

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Dotunbey/feedback-os/internal/metrics"
	"github.com/Dotunbey/feedback-os/internal/storage"
)

// Config controls server startup.
type Config struct {
	Addr string

	// CORSOrigin is the allowed origin for browser clients; empty disables
	// the CORS headers entirely.
	CORSOrigin string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server wires the repository into the HTTP routes.
type Server struct {
	cfg  Config
	repo storage.Repository
	log  *zap.Logger
	mux  *http.ServeMux
}

// NewServer constructs a Server with routes registered. A nil logger is
// replaced with a no-op one.
func NewServer(cfg Config, repo storage.Repository, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:  cfg,
		repo: repo,
		log:  log,
		mux:  http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /api/v1/contacts/search", s.instrument("contacts_search", s.handleSearch))
	s.mux.Handle("POST /api/v1/links", s.instrument("links_save", s.handleSaveLink))
	s.mux.Handle("GET /api/v1/links", s.instrument("links_list", s.handleListLinks))
}

// Handler returns the full middleware-wrapped handler, exported so tests can
// drive it through httptest without a listening socket.
func (s *Server) Handler() http.Handler {
	return s.withCORS(s.mux)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	s.log.Info("api server listening", zap.String("addr", s.cfg.Addr))
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// withCORS adds the configured origin headers and answers preflight requests.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.CORSOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.cfg.CORSOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// instrument logs each request and feeds the request counter and latency
// histogram, labelled by route rather than raw path.
func (s *Server) instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		elapsed := time.Since(start)
		metrics.RecordRequest(route, strconv.Itoa(rec.status), elapsed)
		s.log.Debug("request",
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", elapsed),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
