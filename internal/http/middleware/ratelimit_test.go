package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatalf("request beyond burst should be denied")
	}
}

func TestRateLimiterTracksIPsIndependently(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	if !rl.Allow("10.0.0.1") {
		t.Fatalf("first IP should be allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatalf("second IP should not share the first IP's bucket")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatalf("first IP should be exhausted")
	}
}

func TestRateLimitMiddlewareRejectsWith429(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw := RateLimit(1, 2)
	wrapped := mw(handler)

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/leads", nil)
		req.Header.Set("X-Real-Ip", "203.0.113.7")
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected status %d after burst exhausted, got %d", http.StatusTooManyRequests, last)
	}
}

func TestRateLimitMiddlewareUsesRealIPHeader(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw := RateLimit(1, 1)
	wrapped := mw(handler)

	// Distinct client IPs behind the same proxy address each get a bucket.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/leads", nil)
		req.RemoteAddr = "127.0.0.1:9999"
		req.Header.Set("X-Real-Ip", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("client %d should be allowed, got %d", i, rec.Code)
		}
	}
}
