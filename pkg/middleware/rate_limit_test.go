package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"barberbook/pkg/logger"
)

func TestClientRateLimiter_Allow(t *testing.T) {
	limiter := NewClientRateLimiter(3, time.Minute, DefaultClientExtractor, logger.Discard())
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		if !limiter.Allow("client-1") {
			t.Fatalf("request %d denied under the limit", i)
		}
	}
	if limiter.Allow("client-1") {
		t.Error("request over the limit allowed")
	}

	// Other clients have their own bucket.
	if !limiter.Allow("client-2") {
		t.Error("separate client denied")
	}
}

func TestClientRateLimiter_WindowSlides(t *testing.T) {
	limiter := NewClientRateLimiter(1, 20*time.Millisecond, DefaultClientExtractor, logger.Discard())
	defer limiter.Stop()

	if !limiter.Allow("client-1") {
		t.Fatal("first request denied")
	}
	if limiter.Allow("client-1") {
		t.Fatal("second request inside window allowed")
	}

	time.Sleep(30 * time.Millisecond)
	if !limiter.Allow("client-1") {
		t.Error("request after window expiry denied")
	}
}

func TestRateLimit_Returns429(t *testing.T) {
	limiter := NewClientRateLimiter(1, time.Minute, DefaultClientExtractor, logger.Discard())
	defer limiter.Stop()

	handler := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429", second.Code)
	}
}

func TestDefaultClientExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if got := DefaultClientExtractor(req); got != "10.0.0.1" {
		t.Errorf("anonymous request keyed by %q, want host", got)
	}

	req.Header.Set("Authorization", "Bearer token-abc")
	if got := DefaultClientExtractor(req); got != "token-abc" {
		t.Errorf("authenticated request keyed by %q, want token", got)
	}
}
