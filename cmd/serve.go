package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"registration/internal/api"
	"registration/internal/api/handler/v1handler"
	"registration/internal/config"
	"registration/internal/registration"
	"registration/internal/worker"
	"registration/pkg/antiforgery"
	"registration/pkg/events/redisevents"
	"registration/pkg/logger"
	"registration/pkg/metrics"
	"registration/pkg/password"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config, deps api.Deps) func(ctx context.Context) {
	server := api.NewServer(deps, api.NewOptions(cfg))

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

// getRedis creates a Redis client using configuration values and returns it
// along with a cleanup function to close it.
func getRedis(ctx context.Context, cfg *config.Config) (*redis.Client, func()) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		// events are delivered by retried jobs, so a missing redis is not fatal
		logger.Warn(ctx, "could not ping redis", zap.Error(err))
	}

	return client, func() {
		logger.Info(ctx, "closing redis client...")
		if err := client.Close(); err != nil {
			logger.Warn(ctx, "could not close redis client", zap.Error(err))
		}
	}
}

func getHasher(ctx context.Context, cfg *config.Config) password.Hasher {
	hasher, err := password.New(password.Options{
		Algorithm: cfg.Password.Algorithm,
		Argon2: password.Argon2Params{
			Memory:      cfg.Password.Argon2Memory,
			Iterations:  cfg.Password.Argon2Iterations,
			Parallelism: cfg.Password.Argon2Parallelism,
		},
		BcryptCost: cfg.Password.BcryptCost,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create password hasher", zap.Error(err))
	}

	return hasher
}

func getAntiForgery(ctx context.Context, cfg *config.Config) *antiforgery.Manager {
	tokens, err := antiforgery.New(antiforgery.Options{
		Secret:     []byte(cfg.AntiForgery.Secret),
		TTL:        cfg.AntiForgery.TTL,
		CookieName: cfg.AntiForgery.CookieName,
		Secure:     cfg.AntiForgery.SecureCookie,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create anti-forgery manager", zap.Error(err))
	}

	return tokens
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			redisClient, closeRedis := getRedis(ctx, cfg)
			defer closeRedis()

			mp, err := metrics.NewMeterProvider(prometheus.DefaultRegisterer)
			if err != nil {
				logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
			}

			registrar, err := registration.New(registration.Deps{
				Storage:       strg,
				Hasher:        getHasher(ctx, cfg),
				MeterProvider: mp,
			}, registration.NewOptions(cfg))
			if err != nil {
				logger.Fatal(ctx, "could not create registrar", zap.Error(err))
			}

			publisher := redisevents.New(redisClient, redisevents.Options{
				Channel:         cfg.Redis.Channel,
				BreakerTimeout:  cfg.Redis.BreakerTimeout,
				BreakerFailures: cfg.Redis.BreakerFailures,
			})
			riverClient, err := worker.Start(ctx, strg.Pool, publisher, worker.NewOptions(cfg))
			if err != nil {
				logger.Fatal(ctx, "could not start workers", zap.Error(err))
			}

			tokens := getAntiForgery(ctx, cfg)
			stopWebserver := setupServer(ctx, cfg, api.Deps{
				Deps:        v1handler.Deps{Registrar: registrar, Tokens: tokens},
				AntiForgery: tokens,
			})

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)

			logger.Info(ctx, "stopping workers...")
			if err := riverClient.Stop(shutdownCtx); err != nil {
				logger.Error(ctx, "could not stop workers", zap.Error(err))
			}
			if err := mp.Shutdown(shutdownCtx); err != nil {
				logger.Warn(ctx, "could not shutdown meter provider", zap.Error(err))
			}
		},
	}

	return cmd
}
