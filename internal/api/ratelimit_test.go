package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d denied inside the limit", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("fourth request allowed past a limit of 3")
	}

	// A different IP has its own bucket.
	if !rl.Allow("5.6.7.8") {
		t.Error("separate IP was denied")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	handler := RateLimitMiddleware(rl, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/simulate", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	first := httptest.NewRecorder()
	handler(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After")
	}
}

func TestRateLimitMiddlewareForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	handler := RateLimitMiddleware(rl, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Two requests from the same proxy but different client IPs are
	// limited independently.
	for _, client := range []string{"10.0.0.1", "10.0.0.2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/simulate", nil)
		req.RemoteAddr = "127.0.0.1:80"
		req.Header.Set("X-Forwarded-For", client+", 127.0.0.1")

		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("client %s denied on first request", client)
		}
	}
}
