package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/oauth2"

	"github.com/instameet/instameet/internal/calendar"
	"github.com/instameet/instameet/internal/google"
	"github.com/instameet/instameet/internal/instrumentation"
	"github.com/instameet/instameet/internal/session"
)

// IdentityProvider is the slice of the Google adapter the auth handlers
// depend on.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, token *oauth2.Token) (*google.Profile, error)
}

// MeetingCreator creates a calendar event with conferencing attached on
// behalf of the given token's owner.
type MeetingCreator interface {
	CreateMeeting(ctx context.Context, token *oauth2.Token, input calendar.MeetingInput) (*calendar.Meeting, error)
}

// Config wires the server's collaborators. All fields except Metrics and
// Tracer are required.
type Config struct {
	Addr     string
	SiteURL  *url.URL
	Sessions *session.Manager
	Identity IdentityProvider
	Meetings MeetingCreator
	Logger   *slog.Logger
	Metrics  *instrumentation.Metrics
	Tracer   trace.Tracer
}

// Server is the application HTTP server.
type Server struct {
	cfg        Config
	logger     *slog.Logger
	tracer     trace.Tracer
	health     *HealthChecker
	httpServer *http.Server
}

// New creates a Server from the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.SiteURL == nil {
		return nil, fmt.Errorf("site URL is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if cfg.Identity == nil {
		return nil, fmt.Errorf("identity provider is required")
	}
	if cfg.Meetings == nil {
		return nil, fmt.Errorf("meeting creator is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("instameet")
	}

	return &Server{
		cfg:    cfg,
		logger: logger,
		tracer: tracer,
		health: NewHealthChecker(),
	}, nil
}

// Handler returns the server's routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/auth/signin", s.instrument("/api/auth/signin", http.HandlerFunc(s.handleSignIn)))
	mux.Handle("GET /api/auth/callback", s.instrument("/api/auth/callback", http.HandlerFunc(s.handleCallback)))
	mux.Handle("POST /api/auth/signout", s.instrument("/api/auth/signout", http.HandlerFunc(s.handleSignOut)))
	mux.Handle("GET /api/auth/session", s.instrument("/api/auth/session", http.HandlerFunc(s.handleSession)))
	mux.Handle("POST /api/meetings", s.instrument("/api/meetings", http.HandlerFunc(s.handleCreateMeeting)))

	mux.Handle("GET /home", s.instrument("/home", http.HandlerFunc(s.handleHome)))
	mux.Handle("GET /{$}", http.RedirectHandler("/home", http.StatusFound))

	s.health.RegisterHealthEndpoints(mux)

	return mux
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Server) Start() error {
	return s.StartWithReadySignal(nil)
}

// StartWithReadySignal runs the HTTP server, closing ready once the
// listener is bound. A nil ready channel is allowed.
func (s *Server) StartWithReadySignal(ready chan<- struct{}) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}

	s.health.SetReady(true)
	if ready != nil {
		close(ready)
	}

	s.logger.Info("starting HTTP server", "addr", s.cfg.Addr)
	return s.httpServer.Serve(listener)
}

// Shutdown gracefully stops the server, failing readiness first so load
// balancers drain traffic.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Health returns the server's health checker.
func (s *Server) Health() *HealthChecker {
	return s.health
}

// instrument wraps a handler with request logging and metrics. The route
// pattern keeps metric label cardinality bounded.
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		s.cfg.Metrics.RecordHTTPRequest(r.Context(), r.Method, route, rec.status, duration)
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", route,
			"status", rec.status,
			"duration", duration,
		)
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap exposes the underlying writer so http.ResponseController can
// reach Flush, Hijack and deadline support through the wrapper.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) Flush() {
	_ = http.NewResponseController(r.ResponseWriter).Flush()
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the structured JSON error body for all failures.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
