package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/sample-data-api/internal/observability"
	q "github.com/iliyamo/sample-data-api/internal/queue"
	"github.com/iliyamo/sample-data-api/internal/repository"
	"github.com/iliyamo/sample-data-api/internal/service"
)

const (
	msgSomethingWentWrong = "Something went wrong. Please try again."
	msgInvalidBody        = "invalid request body"
)

// publishTimeout bounds how long a write waits for its change event.
const publishTimeout = 2 * time.Second

// base carries the collaborators shared by every resource handler.
type base struct {
	log     *zap.Logger
	metrics *observability.Metrics
	events  service.EventPublisher
}

func newBase(log *zap.Logger, m *observability.Metrics, events service.EventPublisher) base {
	if log == nil || m == nil {
		panic("handler: nil logger or metrics")
	}
	if events == nil {
		events = service.NopPublisher{}
	}
	return base{log: log, metrics: m, events: events}
}

// fail answers err.  Domain errors get domainStatus and their message; any
// other error is an unexpected store failure, logged and answered with 500.
func (b base) fail(c echo.Context, domainStatus int, err error) error {
	var derr *repository.Error
	if errors.As(err, &derr) {
		return c.JSON(domainStatus, echo.Map{"error": derr.Msg})
	}
	return b.internal(c, err)
}

func (b base) internal(c echo.Context, err error) error {
	b.metrics.StoreErrors.WithLabelValues(c.Path()).Inc()
	b.log.Error("store failure",
		zap.String("route", c.Path()),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgSomethingWentWrong})
}

// changed publishes a DocumentChanged event.  A broker failure is counted and
// logged but never fails the request that already succeeded.
func (b base) changed(c echo.Context, collection, action, id, parentID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
	defer cancel()

	ev := q.DocumentChanged{
		Collection: collection,
		Action:     action,
		ID:         id,
		ParentID:   parentID,
		OccurredAt: time.Now().UTC(),
	}
	if err := b.events.Publish(ctx, ev); err != nil {
		b.metrics.EventsFailed.Inc()
		b.log.Warn("change event not published",
			zap.String("collection", collection),
			zap.String("action", action),
			zap.String("id", id),
			zap.Error(err))
	}
}

// bindBody decodes a JSON request body into dst and reports whether the
// handler should continue.  An empty body leaves dst untouched so the store
// reports the missing fields.
func bindBody(c echo.Context, dst any) (bool, error) {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}
	return true, nil
}
