package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	enabled := Middleware(Config{Enabled: true, Token: "s3cret"})(next)
	disabled := Middleware(Config{})(next)

	tests := []struct {
		name     string
		handler  http.Handler
		method   string
		path     string
		header   string
		wantCode int
	}{
		{"disabled passes everything", disabled, "POST", "/api/v1/plan", "", 204},
		{"probe exempt", enabled, "GET", "/healthz", "", 204},
		{"metrics exempt", enabled, "GET", "/metrics", "", 204},
		{"windows read-only", enabled, "GET", "/api/v1/windows", "", 204},
		{"chart read-only", enabled, "GET", "/api/v1/chart/2025.03.14", "", 204},
		{"plan list protected", enabled, "GET", "/api/v1/plan", "", 401},
		{"reserve protected", enabled, "POST", "/api/v1/plan", "", 401},
		{"post to read-only path protected", enabled, "POST", "/api/v1/windows", "", 401},
		{"wrong token", enabled, "POST", "/api/v1/plan", "Bearer nope", 401},
		{"missing scheme", enabled, "POST", "/api/v1/plan", "s3cret", 401},
		{"valid token", enabled, "POST", "/api/v1/plan", "Bearer s3cret", 204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			tt.handler.ServeHTTP(w, req)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}
