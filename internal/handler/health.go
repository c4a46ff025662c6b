package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Health is a simple liveness endpoint for load balancers.  It returns a
// plain text "ok" with 200 as long as the process serves requests.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// ReadinessChecker reports whether the document store is reachable.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

const readyTimeout = 2 * time.Second

// Ready pings the store and answers 503 until it responds.
func Ready(store ReadinessChecker, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
		defer cancel()
		if err := store.CheckReadiness(ctx); err != nil {
			log.Warn("readiness check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	}
}
