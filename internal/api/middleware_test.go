// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/curatarr/internal/logging"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestDefaultChiMiddlewareConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()

	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("default CORS origins = %v, want empty (explicit configuration required)", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRequests != 100 {
		t.Errorf("default rate limit = %d, want 100", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("default rate limit window = %v, want 1m", cfg.RateLimitWindow)
	}
	if cfg.RateLimitDisabled {
		t.Error("rate limiting should be enabled by default")
	}
}

func TestNewChiMiddlewareNilConfig(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(nil)
	if m.config == nil {
		t.Fatal("expected nil config to fall back to defaults")
	}
	if m.config.RateLimitRequests != 100 {
		t.Errorf("fallback rate limit = %d, want 100", m.config.RateLimitRequests)
	}
}

func TestAPISecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := APISecurityHeaders()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for name, want := range headers {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if hsts := rec.Header().Get("Strict-Transport-Security"); hsts != "" {
		t.Errorf("unexpected HSTS header on plain HTTP request: %q", hsts)
	}
}

func TestAPISecurityHeadersHSTSBehindProxy(t *testing.T) {
	t.Parallel()

	handler := APISecurityHeaders()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/test", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if hsts := rec.Header().Get("Strict-Transport-Security"); hsts == "" {
		t.Error("expected HSTS header when X-Forwarded-Proto is https")
	}
}

func TestRequestIDWithLogging(t *testing.T) {
	t.Parallel()

	var captured string
	handler := RequestIDWithLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = logging.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured == "" {
		t.Error("expected a generated request ID in the logging context")
	}
}

func TestRequestIDWithLoggingRespectsHeader(t *testing.T) {
	t.Parallel()

	var captured string
	handler := RequestIDWithLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = logging.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured != "client-supplied" {
		t.Errorf("request ID = %q, want client-supplied", captured)
	}
}

func TestRateLimitCustomExceeded(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(nil)
	handler := m.RateLimitCustom(RateLimitConfig{Requests: 2, Window: time.Minute})(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.0.2.50:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.0.2.50:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Error("expected success=false on rate limit rejection")
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("error = %+v, want TOO_MANY_REQUESTS envelope", resp.Error)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	cfg.RateLimitRequests = 1

	m := NewChiMiddleware(cfg)
	handler := m.RateLimit()(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.0.2.51:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200 with limiting disabled", i+1, rec.Code)
		}
	}
}

func TestPrometheusMetricsStatusPassthrough(t *testing.T) {
	t.Parallel()

	handler := PrometheusMetrics()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d passed through the recording wrapper", rec.Code, http.StatusTeapot)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"http://dashboard.local"}

	m := NewChiMiddleware(cfg)
	handler := m.CORS()(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/stats/performers", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://dashboard.local" {
		t.Errorf("Access-Control-Allow-Origin = %q, want http://dashboard.local", got)
	}
}

func TestCORSRejectsUnlistedOrigin(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"http://dashboard.local"}

	m := NewChiMiddleware(cfg)
	handler := m.CORS()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/performers", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want empty for unlisted origin", got)
	}
}
