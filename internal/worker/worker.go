package worker

import (
	"context"
	"fmt"
	"log/slog"
	"registration/internal/config"
	"registration/pkg/events"
	"registration/pkg/logger"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

// Options configure the background job client.
type Options struct {
	// MaxWorkers is the number of jobs of the default queue processed concurrently.
	MaxWorkers int
	// RetryAfter is how long a job is snoozed when its downstream is unavailable.
	RetryAfter time.Duration
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxWorkers: cfg.Worker.MaxWorkers,
		RetryAfter: cfg.Redis.BreakerTimeout,
	}
}

// Start registers the workers and starts a River client processing the
// default queue.
func Start(
	ctx context.Context,
	dbPool *pgxpool.Pool,
	publisher events.Publisher,
	options Options,
) (*river.Client[pgx.Tx], error) {
	if options.MaxWorkers <= 0 {
		options.MaxWorkers = 10
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewAccountRegisteredWorker(publisher, options.RetryAfter))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: options.MaxWorkers},
		},
		Workers: workers,
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
