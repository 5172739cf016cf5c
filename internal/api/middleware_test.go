package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ytnotebook/ytnotebook/internal/ratelimit"
)

func TestRateLimit_OnlyAuthPaths(t *testing.T) {
	limiter := ratelimit.New(0.001, 1)
	defer limiter.Stop()
	ts := setupTestServerWithOptions(t, Options{AuthLimiter: limiter})
	defer ts.cleanup()

	login := map[string]any{"user_email": "ada@example.com", "password": "hunter22"}

	resp := ts.api.Post("/login", login)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/login", login)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "Too many requests. Please try again later.", decode(t, resp.Body.Bytes())["detail"])

	// Other routes share the client IP but are not limited.
	for range 3 {
		assert.NotEqual(t, http.StatusTooManyRequests, ts.api.Get("/health").Code)
	}

	// A different client has its own bucket.
	resp = ts.api.Post("/login", "X-Forwarded-For: 203.0.113.9", login)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "10.0.0.2:5555", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.2:5555", "198.51.100.7"},
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"ipv6 remote", nil, "[::1]:8000", "[::1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	req := httptest.NewRequest(http.MethodOptions, "/notebooks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Idempotency-Key")
	rec := httptest.NewRecorder()

	ts.server.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers")), "idempotency-key")

	req = httptest.NewRequest(http.MethodOptions, "/notebooks", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
