package worker

import (
	"context"
	"errors"
	"fmt"
	"registration/internal/registration"
	"registration/pkg/events"
	"registration/pkg/logger"
	"registration/pkg/serrors"
	"time"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// defaultRetryAfter is used when no snooze duration was configured.
const defaultRetryAfter = 30 * time.Second

// AccountRegisteredWorker announces committed registrations to downstream
// consumers. The job is enqueued in the same transaction as the account, so
// an announcement only ever goes out for an account that exists.
//
// When the publisher reports ErrUnavailable the job is snoozed instead of
// failed; this keeps an outage from burning through the job's attempts.
type AccountRegisteredWorker struct {
	river.WorkerDefaults[registration.AccountRegisteredArgs]

	publisher  events.Publisher
	retryAfter time.Duration
}

// NewAccountRegisteredWorker constructs an AccountRegisteredWorker using the
// provided publisher.
func NewAccountRegisteredWorker(publisher events.Publisher, retryAfter time.Duration) *AccountRegisteredWorker {
	if retryAfter <= 0 {
		retryAfter = defaultRetryAfter
	}

	return &AccountRegisteredWorker{
		publisher:  publisher,
		retryAfter: retryAfter,
	}
}

// Work publishes the AccountRegistered event carried by job.
func (w *AccountRegisteredWorker) Work(ctx context.Context, job *river.Job[registration.AccountRegisteredArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.Int64("accountID", job.Args.AccountID),
		logger.Email("email", job.Args.Email),
	)

	err := w.publisher.PublishAccountRegistered(ctx, events.AccountRegistered{
		ID:           job.Args.AccountID,
		Name:         job.Args.Name,
		Email:        job.Args.Email,
		RegisteredAt: job.Args.RegisteredAt,
	})
	if err != nil {
		if errors.Is(err, serrors.ErrUnavailable) {
			logger.Warn(ctx, "event publisher unavailable, snoozing job", zap.Duration("retryAfter", w.retryAfter))

			return river.JobSnooze(w.retryAfter) //nolint: wrapcheck
		}

		logger.Error(ctx, "error in publishing account registered event", zap.Error(err))

		return fmt.Errorf("could not publish account registered event: %w", err)
	}

	logger.Info(ctx, "account registration announced")

	return nil
}
