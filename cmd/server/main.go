package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/sample-data-api/internal/config"
	"github.com/iliyamo/sample-data-api/internal/database"
	"github.com/iliyamo/sample-data-api/internal/handler"
	"github.com/iliyamo/sample-data-api/internal/middleware"
	"github.com/iliyamo/sample-data-api/internal/observability"
	"github.com/iliyamo/sample-data-api/internal/repository"
	"github.com/iliyamo/sample-data-api/internal/router"
	"github.com/iliyamo/sample-data-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := observability.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.MongoURI, cfg.ConnectTimeout)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warn("mongo disconnect failed", zap.Error(err))
		}
	}()

	movies := store.Database(cfg.MoviesDB)
	movieRepo := repository.NewMovieRepo(movies.Collection("movies"))
	commentRepo := repository.NewCommentRepo(movies.Collection("comments"), clockwork.NewRealClock())
	weatherRepo := repository.NewWeatherRepo(store.Database(cfg.WeatherDB).Collection("data"))

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		events = service.NewRabbitPublisher(cfg.AMQPURL, log)
	}

	metrics := observability.NewMetrics()
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Info("redis unavailable; cache and rate limiting disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Metrics(metrics))

	// Probes and scrapes must see live answers, so the Redis middlewares
	// wrap the API groups only.
	api := []echo.MiddlewareFunc{
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log),
	}

	router.RegisterRoutes(e, store, metrics.Registry, log)
	router.RegisterMovies(e, handler.NewMovieHandler(movieRepo, commentRepo, log, metrics, events), api...)
	router.RegisterWeather(e, handler.NewWeatherHandler(weatherRepo, log, metrics, events), api...)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
