package registration

import (
	"context"
	"errors"
	"fmt"
	"registration/internal/config"
	"registration/pkg/domain"
	"registration/pkg/logger"
	"registration/pkg/password"
	"registration/pkg/serrors"
	"registration/pkg/storage"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "registration"

// outcome labels the registration attempts counter.
type outcome string

const (
	outcomeSucceeded outcome = "succeeded"
	outcomeRejected  outcome = "rejected"
	outcomeConflict  outcome = "conflict"
	outcomeFailed    outcome = "failed"
)

// Options configure registration side effects. These settings are typically
// derived from application configuration.
type Options struct {
	// MaxJobAttempts is the maximum number of attempts the background worker
	// makes when announcing a registration.
	MaxJobAttempts int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxJobAttempts: cfg.Worker.MaxAttempts,
	}
}

// Deps holds the collaborators of the registration service.
type Deps struct {
	// Storage persists accounts and enqueues jobs.
	Storage storage.Storage
	// Hasher derives password hashes.
	Hasher password.Hasher
	// MeterProvider creates the service instruments. Nil disables metrics.
	MeterProvider metric.MeterProvider
}

// registrar is the concrete implementation of the Registrar interface.
type registrar struct {
	options   Options
	storage   storage.Storage
	hasher    password.Hasher
	validator *Validator
	tracer    trace.Tracer

	attempts     metric.Int64Counter
	hashDuration metric.Float64Histogram
}

// New creates a Registrar backed by the given dependencies.
func New(deps Deps, options Options) (Registrar, error) {
	mp := deps.MeterProvider
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	attempts, err := meter.Int64Counter("registration.attempts",
		metric.WithDescription("Number of registration attempts by outcome"))
	if err != nil {
		return nil, fmt.Errorf("could not create attempts counter: %w", err)
	}
	hashDuration, err := meter.Float64Histogram("registration.hash.duration",
		metric.WithDescription("Time spent hashing passwords"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("could not create hash duration histogram: %w", err)
	}

	return &registrar{
		options:      options,
		storage:      deps.Storage,
		hasher:       deps.Hasher,
		validator:    NewValidator(deps.Storage, password.MaxInputBytes(deps.Hasher)),
		tracer:       otel.Tracer(instrumentationName),
		attempts:     attempts,
		hashDuration: hashDuration,
	}, nil
}

func (r *registrar) record(ctx context.Context, o outcome) {
	r.attempts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(o))))
}

// Register validates in, hashes the password and stores the new account
// together with its AccountRegistered job. Invalid input yields an
// ErrValidation error carrying field messages; nothing is hashed or stored
// in that case. Losing the email uniqueness race at insert time is reported
// the same way, under the email field.
func (r *registrar) Register(ctx context.Context, in Input) (*domain.Account, error) {
	ctx, span := r.tracer.Start(ctx, "registration.Register")
	defer span.End()

	in, fields, err := r.validator.Validate(ctx, in)
	if err != nil {
		r.record(ctx, outcomeFailed)
		span.SetStatus(codes.Error, "validation lookup failed")

		return nil, fmt.Errorf("could not validate registration: %w", err)
	}
	if !fields.Empty() {
		r.record(ctx, outcomeRejected)
		span.SetAttributes(attribute.StringSlice("registration.invalid_fields", fields.Keys()))
		logger.Debug(ctx, "registration rejected", zap.Strings("fields", fields.Keys()))

		return nil, serrors.Validation(fields)
	}

	start := time.Now()
	hash, err := r.hasher.Hash(in.Password)
	r.hashDuration.Record(ctx, time.Since(start).Seconds())
	if errors.Is(err, password.ErrTooLong) {
		// only reachable when the hasher does not advertise its limit to the validator
		r.record(ctx, outcomeRejected)

		return nil, serrors.Validation(serrors.FieldErrors{FieldPassword: {MessagePasswordTooLong}})
	}
	if err != nil {
		r.record(ctx, outcomeFailed)
		span.SetStatus(codes.Error, "hashing failed")

		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	var account *domain.Account
	err = r.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		stored, err := tx.InsertAccount(ctx, domain.Account{
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: hash,
		})
		if err != nil {
			return fmt.Errorf("could not insert account: %w", err)
		}
		account = stored

		if _, err := tx.AddJob(ctx, AccountRegisteredArgs{
			AccountID:    int64(stored.ID),
			Name:         stored.Name,
			Email:        stored.Email,
			RegisteredAt: stored.CreatedAt,
			maxAttempts:  r.options.MaxJobAttempts,
		}, nil); err != nil {
			return fmt.Errorf("could not add job: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			r.record(ctx, outcomeConflict)
			logger.Info(ctx, "registration lost email uniqueness race")

			return nil, serrors.Validation(serrors.FieldErrors{FieldEmail: {MessageEmailTaken}})
		}

		r.record(ctx, outcomeFailed)
		span.SetStatus(codes.Error, "persistence failed")

		return nil, fmt.Errorf("could not register account: %w", err)
	}

	r.record(ctx, outcomeSucceeded)
	span.SetAttributes(attribute.Int64("registration.account_id", int64(account.ID)))
	logger.Info(ctx, "account registered",
		zap.Int64("account_id", int64(account.ID)),
		logger.Email("email", account.Email),
	)

	return account, nil
}
