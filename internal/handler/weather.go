package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/sample-data-api/internal/observability"
	q "github.com/iliyamo/sample-data-api/internal/queue"
	"github.com/iliyamo/sample-data-api/internal/repository"
	"github.com/iliyamo/sample-data-api/internal/service"
)

// WeatherHandler serves /weather.
type WeatherHandler struct {
	base
	Weather WeatherStore
}

func NewWeatherHandler(weather WeatherStore, log *zap.Logger, m *observability.Metrics, events service.EventPublisher) *WeatherHandler {
	if weather == nil {
		panic("nil store passed to NewWeatherHandler")
	}
	return &WeatherHandler{base: newBase(log, m, events), Weather: weather}
}

// Query dispatches on the query-string filters.  An empty result is a 422;
// a request with no recognised filter is answered like a store failure.
func (h *WeatherHandler) Query(c echo.Context) error {
	f := repository.WeatherFilter{
		CallLetters: c.QueryParam("callLetters"),
		MinAirTemp:  c.QueryParam("minAirTemp"),
		MaxAirTemp:  c.QueryParam("maxAirTemp"),
		Section:     c.QueryParam("section"),
	}
	res, err := h.Weather.Query(c.Request().Context(), f)
	if errors.Is(err, repository.ErrNoFilter) {
		// Nothing was asked of the store, so this is not a store failure.
		h.metrics.WeatherQueries.WithLabelValues("none").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgSomethingWentWrong})
	}
	if err != nil {
		return h.fail(c, http.StatusBadRequest, err)
	}
	h.metrics.WeatherQueries.WithLabelValues(res.Query).Inc()
	if res.Count == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "No weather data found."})
	}
	return c.JSON(http.StatusOK, res.Items)
}

func (h *WeatherHandler) ByCallLetters(c echo.Context) error {
	callLetters := c.Param("callLetters")
	items, err := h.Weather.ByCallLetters(c.Request().Context(), callLetters)
	if err != nil {
		return h.fail(c, http.StatusBadRequest, err)
	}
	if len(items) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No weather data found with the call-letters: " + callLetters + "."})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *WeatherHandler) Create(c echo.Context) error {
	doc, ok, err := bindDocument(c)
	if !ok {
		return err
	}
	created, err := h.Weather.Create(c.Request().Context(), doc)
	if err != nil {
		return h.fail(c, http.StatusBadRequest, err)
	}
	h.changed(c, "weather", q.ActionCreated, created.NewObjectID.Hex(), "")
	return c.JSON(http.StatusOK, created)
}
