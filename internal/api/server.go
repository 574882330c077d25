package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/auth"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/health"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/httputil"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/metrics"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/planner"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/schedule"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/site"
)

// Config holds HTTP server settings.
type Config struct {
	Addr       string
	Auth       auth.Config
	TrustProxy bool
	MaxTargets int // per request; 0 means defaultMaxTargets
}

// Deps are the services the handlers call.
type Deps struct {
	Planner *planner.Planner
	Store   *schedule.Store
	Site    site.Config
	Checker *health.Checker
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server.
func NewServer(cfg Config, deps Deps, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewHandler(cfg, deps, logger),
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			// A cold catalog lookup plus a chart can take a while.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger,
	}
}

// NewHandler builds the routed handler with its middleware chain.
func NewHandler(cfg Config, deps Deps, logger *slog.Logger) http.Handler {
	h := &handlers{
		planner:    deps.Planner,
		store:      deps.Store,
		site:       deps.Site,
		maxTargets: cfg.MaxTargets,
		logger:     logger,
	}
	if h.maxTargets <= 0 {
		h.maxTargets = defaultMaxTargets
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", deps.Checker.Healthz)
	mux.HandleFunc("GET /readyz", deps.Checker.Readyz)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/v1/site", h.siteInfo)
	mux.HandleFunc("GET /api/v1/windows", h.windows)
	mux.HandleFunc("GET /api/v1/chart/{date}", h.chart)
	mux.HandleFunc("GET /api/v1/plan", h.listPlan)
	mux.HandleFunc("POST /api/v1/plan", h.reserve)

	// Build middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(cfg.Auth)(handler)
	handler = loggingMiddleware(logger, cfg.TrustProxy)(handler)
	handler = metrics.Middleware(handler)
	return handler
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", httputil.ClientIP(r, trustProxy),
			)
		})
	}
}
