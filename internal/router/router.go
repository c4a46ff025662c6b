package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/iliyamo/sample-data-api/internal/handler"
)

// RegisterRoutes registers the operational endpoints: liveness, readiness
// and the Prometheus exposition.
func RegisterRoutes(e *echo.Echo, store handler.ReadinessChecker, reg prometheus.Gatherer, log *zap.Logger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(store, log))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
}

// RegisterMovies mounts the movie and comment endpoints under /movies.  mw
// runs only on this group, which keeps the response cache and the rate
// limiter away from the operational endpoints.  Static segments win over
// parameters in echo, so /movies/genres/:genreName never reaches the :id
// route.
func RegisterMovies(e *echo.Echo, h *handler.MovieHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/movies", mw...)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/genres/:genreName", h.ListByGenre)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	// The movie id is named :id on every nested route so echo shares one
	// parameter node.
	g.GET("/:id/comments", h.ListComments)
	g.POST("/:id/comments", h.CreateComment)
	g.GET("/:id/comments/:commentId", h.GetComment)
	g.PUT("/:id/comments/:commentId", h.UpdateComment)
	g.DELETE("/:id/comments/:commentId", h.DeleteComment)
}

// RegisterWeather mounts the weather endpoints under /weather with the same
// group middleware as RegisterMovies.
func RegisterWeather(e *echo.Echo, h *handler.WeatherHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/weather", mw...)
	g.GET("", h.Query)
	g.POST("", h.Create)
	g.GET("/:callLetters", h.ByCallLetters)
}
