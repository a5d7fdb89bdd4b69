package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/sift/internal/logger"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host, pattern string
		want          bool
	}{
		{"sift.example.com", "sift.example.com", true},
		{"sift.example.com:8080", "sift.example.com", true},
		{"sift.example.com:8080", "sift.example.com:9090", false},
		{"a.example.com", "*.example.com", true},
		{"a.example.com:443", "*.example.com", true},
		{"example.com", "*.example.com", false},
		{"evil-example.com", "*.example.com", false},
		{"other.org", "sift.example.com", false},
	}
	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"Sift.Example.com"}, logger.Nop())(ok)

	r := httptest.NewRequest(http.MethodGet, "http://sift.example.com/api", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusNoContent {
		t.Errorf("allowed host got %d", rec.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "http://other.example.com/api", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign host got %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 1, IdleTTL: time.Minute})(ok)

	send := func(remote string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	first := send("192.0.2.1:1000")
	if first.Code != http.StatusNoContent || first.Header().Get("X-RateLimit-Remaining") != "1" {
		t.Fatalf("first request: code=%d remaining=%s", first.Code, first.Header().Get("X-RateLimit-Remaining"))
	}
	if send("192.0.2.1:1001").Code != http.StatusNoContent {
		t.Fatal("second request within burst rejected")
	}

	limited := send("192.0.2.1:1002")
	if limited.Code != http.StatusTooManyRequests {
		t.Fatalf("third request code = %d, want 429", limited.Code)
	}
	if limited.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing")
	}

	// buckets are per IP
	if send("192.0.2.2:1000").Code != http.StatusNoContent {
		t.Error("other client should not be limited")
	}
}
