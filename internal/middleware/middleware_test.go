package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/sample-data-api/internal/config"
	"github.com/iliyamo/sample-data-api/internal/observability"
)

func newTestEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(mw...)
	e.GET("/movies/:id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id")})
	})
	e.POST("/movies", func(c echo.Context) error {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Movies must have a title."})
	})
	return e
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRedisCache_PassThroughWithoutRedis(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{http.MethodGet: true}, Prefix: "cache"}
	e := newTestEcho(NewRedisCache(cfg, nil, zap.NewNop()))

	rec := serve(e, http.MethodGet, "/movies/abc")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
}

func TestTokenBucket_PassThroughWithoutRedis(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, Prefix: "rl"}
	e := newTestEcho(NewTokenBucket(cfg, nil, zap.NewNop()))

	for i := 0; i < 3; i++ {
		rec := serve(e, http.MethodGet, "/movies/abc")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestCacheKeyFrom(t *testing.T) {
	e := echo.New()
	key := func(strategy, target string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/weather")
		return cacheKeyFrom(config.CacheConfig{Prefix: "cache", KeyStrategy: strategy}, c)
	}

	a := key("route_query", "/weather?section=AG1")
	b := key("route_query", "/weather?section=MW1")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, key("route_query", "/weather?section=AG1"))
	assert.Equal(t, key("route", "/weather?section=AG1"), key("route", "/weather?section=MW1"))
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, a)
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 50})
	assert.False(t, ok)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/movies/abc", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/movies/:id")

	cases := map[string]string{
		"ip":       "rl:ip:10.0.0.7",
		"route":    "rl:route:GET /movies/:id",
		"ip_route": "rl:ip:10.0.0.7:route:GET /movies/:id",
		"":         "rl:ip:10.0.0.7:route:GET /movies/:id",
	}
	for strategy, want := range cases {
		got := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c)
		assert.Equal(t, want, got, "strategy %q", strategy)
	}
}

func TestMetrics_RecordsByRoute(t *testing.T) {
	m := observability.NewMetrics()
	e := newTestEcho(Metrics(m))

	serve(e, http.MethodGet, "/movies/a")
	serve(e, http.MethodGet, "/movies/b")
	serve(e, http.MethodPost, "/movies")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/movies/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodPost, "/movies", "400")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := newTestEcho(RequestLogger(zap.New(core)))

	serve(e, http.MethodGet, "/movies/abc")
	serve(e, http.MethodPost, "/movies")

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, zapcore.InfoLevel, first.Level)
	assert.Equal(t, "request", first.Message)
	fields := first.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/movies/abc", fields["path"])
	assert.Equal(t, "/movies/:id", fields["route"])
	assert.EqualValues(t, http.StatusOK, fields["status"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
