package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestProbes(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("database is locked") })

	tests := []struct {
		name     string
		deps     map[string]Pinger
		probe    func(*Checker) http.HandlerFunc
		wantCode int
		wantBody string
	}{
		{"healthz ignores deps", map[string]Pinger{"db": down}, func(c *Checker) http.HandlerFunc { return c.Healthz }, 200, "ok\n"},
		{"ready", map[string]Pinger{"db": ok}, func(c *Checker) http.HandlerFunc { return c.Readyz }, 200, "ready\n"},
		{"ready without deps", nil, func(c *Checker) http.HandlerFunc { return c.Readyz }, 200, "ready\n"},
		{"not ready", map[string]Pinger{"db": down}, func(c *Checker) http.HandlerFunc { return c.Readyz }, 503, "not ready: db\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.probe(NewChecker(tt.deps, logger))(w, httptest.NewRequest("GET", "/", nil))
			if w.Code != tt.wantCode || w.Body.String() != tt.wantBody {
				t.Errorf("got %d %q, want %d %q", w.Code, w.Body.String(), tt.wantCode, tt.wantBody)
			}
		})
	}
}
