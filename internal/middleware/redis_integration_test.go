package middleware

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/iliyamo/sample-data-api/internal/config"
)

// newIntegrationRedis starts Redis in a container and returns a flushed
// client.  Set GO_TEST_INTEGRATION to run these tests.
func newIntegrationRedis(t *testing.T) *redis.Client {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("set GO_TEST_INTEGRATION=1 to run against a Redis container")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisC.Terminate(context.Background()) })

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.FlushDB(ctx).Err())
	return rdb
}

func cacheConfig(prefix string, maxBody int) config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       prefix,
		MaxBodyBytes: maxBody,
	}
}

// cachedEcho serves GET /items/:id with a per-call counter in the body and
// POST /items answering writeStatus.
func cachedEcho(mw echo.MiddlewareFunc, calls *int, getStatus, writeStatus int) *echo.Echo {
	e := echo.New()
	e.Use(mw)
	e.GET("/items/:id", func(c echo.Context) error {
		*calls++
		return c.JSON(getStatus, echo.Map{"id": c.Param("id"), "call": *calls})
	})
	e.POST("/items", func(c echo.Context) error {
		return c.JSON(writeStatus, echo.Map{"ok": writeStatus < 400})
	})
	return e
}

func TestRedisCache_MissThenHit(t *testing.T) {
	rdb := newIntegrationRedis(t)
	calls := 0
	e := cachedEcho(NewRedisCache(cacheConfig("cache", 1<<20), rdb, zap.NewNop()), &calls, http.StatusOK, http.StatusOK)

	first := serve(e, http.MethodGet, "/items/a")
	second := serve(e, http.MethodGet, "/items/a")
	other := serve(e, http.MethodGet, "/items/b")

	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestRedisCache_SkipsNonOKAndTruncated(t *testing.T) {
	rdb := newIntegrationRedis(t)

	t.Run("non-200 responses are not stored", func(t *testing.T) {
		calls := 0
		e := cachedEcho(NewRedisCache(cacheConfig("notfound", 1<<20), rdb, zap.NewNop()), &calls, http.StatusNotFound, http.StatusOK)

		serve(e, http.MethodGet, "/items/a")
		rec := serve(e, http.MethodGet, "/items/a")

		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
		assert.Equal(t, 2, calls)
	})

	t.Run("bodies over the limit are not stored", func(t *testing.T) {
		calls := 0
		e := cachedEcho(NewRedisCache(cacheConfig("small", 4), rdb, zap.NewNop()), &calls, http.StatusOK, http.StatusOK)

		serve(e, http.MethodGet, "/items/a")
		rec := serve(e, http.MethodGet, "/items/a")

		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
		assert.Equal(t, 2, calls)
		assert.JSONEq(t, `{"id":"a","call":2}`, rec.Body.String())
	})
}

func TestRedisCache_SuccessfulWritePurgesPrefix(t *testing.T) {
	rdb := newIntegrationRedis(t)
	ctx := context.Background()
	require.NoError(t, rdb.Set(ctx, "unrelated:key", "v", 0).Err())

	calls := 0
	e := cachedEcho(NewRedisCache(cacheConfig("cache", 1<<20), rdb, zap.NewNop()), &calls, http.StatusOK, http.StatusOK)
	serve(e, http.MethodGet, "/items/a")
	serve(e, http.MethodGet, "/items/b")

	keys, err := rdb.Keys(ctx, "cache:*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 2)

	serve(e, http.MethodPost, "/items")

	keys, err = rdb.Keys(ctx, "cache:*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, int64(1), rdb.Exists(ctx, "unrelated:key").Val())
	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/items/a").Header().Get("X-Cache"))
}

func TestRedisCache_FailedWriteKeepsEntries(t *testing.T) {
	rdb := newIntegrationRedis(t)
	calls := 0
	e := cachedEcho(NewRedisCache(cacheConfig("cache", 1<<20), rdb, zap.NewNop()), &calls, http.StatusOK, http.StatusBadRequest)

	serve(e, http.MethodGet, "/items/a")
	serve(e, http.MethodPost, "/items")

	assert.Equal(t, "HIT", serve(e, http.MethodGet, "/items/a").Header().Get("X-Cache"))
}

func TestPurgePrefix_ManyKeys(t *testing.T) {
	rdb := newIntegrationRedis(t)
	ctx := context.Background()
	for i := 0; i < 250; i++ {
		require.NoError(t, rdb.Set(ctx, "bulk:"+strconv.Itoa(i), i, 0).Err())
	}

	n, err := purgePrefix(ctx, rdb, "bulk")

	require.NoError(t, err)
	assert.Equal(t, 250, n)
	assert.Zero(t, rdb.DBSize(ctx).Val())
}

func TestTokenBucket_BlocksWhenEmpty(t *testing.T) {
	rdb := newIntegrationRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            2 * time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
	e := newTestEcho(NewTokenBucket(cfg, rdb, zap.NewNop()))

	first := serve(e, http.MethodGet, "/movies/a")
	second := serve(e, http.MethodGet, "/movies/a")
	blocked := serve(e, http.MethodGet, "/movies/a")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	retry, err := strconv.Atoi(blocked.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, retry, 0)
	assert.LessOrEqual(t, retry, 3600)
	assert.True(t, strings.Contains(blocked.Body.String(), "too_many_requests"))

	// Buckets are keyed by route pattern: /movies/b shares the drained
	// bucket, POST /movies does not.
	assert.Equal(t, http.StatusTooManyRequests, serve(e, http.MethodGet, "/movies/b").Code)
	assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodPost, "/movies").Code)
}
