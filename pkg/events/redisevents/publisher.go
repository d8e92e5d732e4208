// Package redisevents provides an events.Publisher implementation backed by
// Redis pub/sub.
package redisevents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"registration/pkg/events"
	"registration/pkg/logger"
	"registration/pkg/serrors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DefaultChannel is the pub/sub channel used when Options.Channel is empty.
const DefaultChannel = "accounts.registered"

// Options configures the Publisher.
type Options struct {
	// Channel is the pub/sub channel events are published to.
	Channel string
	// BreakerTimeout is how long the breaker stays open before probing again.
	BreakerTimeout time.Duration
	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32
}

// Publisher publishes events as JSON messages on a Redis channel. Calls go
// through a circuit breaker so an unavailable Redis fails fast and the job
// runtime can back off instead of piling up blocked publishes.
type Publisher struct {
	client  redis.UniversalClient
	channel string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
}

// Ensure Publisher implements events.Publisher.
var _ events.Publisher = (*Publisher)(nil)

// New creates a Publisher using the given Redis client.
func New(client redis.UniversalClient, options Options) *Publisher {
	if options.Channel == "" {
		options.Channel = DefaultChannel
	}
	if options.BreakerTimeout <= 0 {
		options.BreakerTimeout = 30 * time.Second
	}
	if options.BreakerFailures == 0 {
		options.BreakerFailures = 5
	}

	failures := options.BreakerFailures
	st := gobreaker.Settings{
		Name:        "redis-events",
		MaxRequests: 1,
		Timeout:     options.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(context.Background(), "circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Publisher{
		client:  client,
		channel: options.Channel,
		timeout: options.BreakerTimeout,
		cb:      gobreaker.NewCircuitBreaker(st),
	}
}

// PublishAccountRegistered publishes event on the configured channel. While
// the breaker is open it fails immediately with serrors.ErrUnavailable.
func (p *Publisher) PublishAccountRegistered(ctx context.Context, event events.AccountRegistered) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.client.Publish(ctx, p.channel, message).Err()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return serrors.Wrap(serrors.ErrUnavailable, err, "event publisher unavailable")
	}
	if err != nil {
		return fmt.Errorf("could not publish account registered event: %w", err)
	}

	return nil
}

// RetryAfter is how long callers should wait before publishing again once the
// publisher reported ErrUnavailable.
func (p *Publisher) RetryAfter() time.Duration {
	return p.timeout
}

// State returns the current circuit breaker state.
func (p *Publisher) State() gobreaker.State {
	return p.cb.State()
}
