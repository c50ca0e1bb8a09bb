package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theater-statement/internal/config"
)

func TestTokenBucketBlocksWhenEmpty(t *testing.T) {
	_, rdb := newTestRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "rl-test",
	}
	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb))
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	for i := 0; i < 2; i++ {
		if rec := doGet(e, "/x", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	rec := doGet(e, "/x", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" || rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("unexpected headers %v", rec.Header())
	}
}

func TestTokenBucketDisabled(t *testing.T) {
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil))
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if rec := doGet(e, "/x", ""); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/statements", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/statements")
	c.Set(ContextUserID, "clerk-1")

	tests := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:10.0.0.1"},
		{"user", "rl:user:clerk-1"},
		{"user_route", "rl:user:clerk-1:route:POST /v1/statements"},
		{"bogus", "rl:ip:10.0.0.1:user:clerk-1:route:POST /v1/statements"},
	}
	for _, tt := range tests {
		got := rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: tt.strategy}, c)
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.strategy, got, tt.want)
		}
	}
}
