// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is a dependency that must answer before the service is ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker serves /healthz and /readyz.
type Checker struct {
	deps    map[string]Pinger
	timeout time.Duration
	logger  *slog.Logger
}

// NewChecker creates a Checker over named dependencies.
func NewChecker(deps map[string]Pinger, logger *slog.Logger) *Checker {
	return &Checker{deps: deps, timeout: 2 * time.Second, logger: logger}
}

// Healthz returns 200 "ok\n" unconditionally.
func (c *Checker) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// Readyz returns 200 "ready\n" when every dependency answers its ping,
// 503 naming the first failing one otherwise.
func (c *Checker) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain")
	for name, dep := range c.deps {
		if err := dep.Ping(ctx); err != nil {
			c.logger.Warn("readiness check failed", "dependency", name, "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("not ready: " + name + "\n"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready\n"))
}
