package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_Allow(t *testing.T) {
	// Burst equals max, so with a long window the first max requests pass and
	// the next one is rejected.
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d unexpectedly limited", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatalf("expected request over the limit to be rejected")
	}
}

func TestRateLimiter_PerKeyIsolation(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.1")
	if rl.Allow("10.0.0.1") {
		t.Fatalf("first key should be exhausted")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatalf("second key should have its own bucket")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	e := echo.New()

	do := func(ip string) error {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		c := e.NewContext(req, httptest.NewRecorder())
		return rl.Middleware()(okHandler)(c)
	}

	for i := 0; i < 2; i++ {
		if err := do("203.0.113.7"); err != nil {
			t.Fatalf("request %d unexpectedly rejected: %v", i+1, err)
		}
	}

	err := do("203.0.113.7")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}

	if err := do("203.0.113.8"); err != nil {
		t.Fatalf("different client should not be limited: %v", err)
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	if !rl.Allow("10.0.0.1") {
		t.Fatalf("defaulted limiter should allow the first request")
	}
}
