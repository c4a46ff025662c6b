// Command audit-consumer appends every document change event to an audit
// log file.  It reconnects to RabbitMQ until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/sample-data-api/internal/config"
	"github.com/iliyamo/sample-data-api/internal/observability"
	"github.com/iliyamo/sample-data-api/internal/queue"
)

func main() {
	cfg := config.LoadConsumer()

	log, err := observability.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "audit-consumer:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("consuming change events", zap.String("queue", queue.ChangesQueue), zap.String("log_path", cfg.LogPath))
	if err := queue.StartChangeConsumer(ctx, cfg.AMQPURL, cfg.LogPath, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", zap.Error(err))
		os.Exit(1)
	}
}
