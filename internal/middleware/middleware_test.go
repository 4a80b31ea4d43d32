package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vjcatalan74/reservas-ciclo-backend/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[{"id":1}]`))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, gotHdr, body, ok := decodePayload(bs)
	if !ok {
		t.Fatal("decode failed")
	}
	if status != http.StatusOK || gotHdr.Get("Content-Type") != "application/json" || string(body) != `[{"id":1}]` {
		t.Errorf("got status=%d header=%v body=%s", status, gotHdr, body)
	}
	if _, _, _, ok := decodePayload(bs[:5]); ok {
		t.Error("short payload must not decode")
	}
}

// TestWithoutRedis checks that both middlewares pass through when no
// Redis client is available.
func TestWithoutRedis(t *testing.T) {
	e := echo.New()
	cache := NewResponseCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil)
	limit := RateLimit(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil)
	e.GET("/classes", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, cache.Middleware(), limit)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/classes", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: want 200, got %d", i, rec.Code)
		}
		if rec.Header().Get("X-Cache") != "" {
			t.Errorf("request %d: X-Cache must not be set without redis", i)
		}
	}
	cache.Purge(httptest.NewRequest(http.MethodGet, "/", nil).Context())

	var nilCache *ResponseCache
	nilCache.Purge(httptest.NewRequest(http.MethodGet, "/", nil).Context())
}

func TestRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/reserve", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/reserve")

	cases := map[string]string{
		"ip":       "rl:ip:10.0.0.7",
		"route":    "rl:route:POST /reserve",
		"ip_route": "rl:ip:10.0.0.7:route:POST /reserve",
	}
	for strategy, want := range cases {
		got := rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c)
		if got != want {
			t.Errorf("%s: want %q, got %q", strategy, want, got)
		}
	}
}
