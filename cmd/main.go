// Package main provides the CLI entrypoint for the registration service.
// It wires subcommands (serve, migrate, csrf, register). Service subcommands
// load configuration before running; the register client needs none.
package main

import (
	"context"
	"fmt"
	"os"
	"registration/internal/config"
	"registration/pkg/logger"
	"registration/pkg/storage/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// skipConfigAnnotation marks commands that run without the service
// configuration, such as the terminal client.
const skipConfigAnnotation = "skip-config"

// loadConfig returns a PersistentPreRunE hook that loads the configuration into
// cfg and sets up logging before any service subcommand runs.
func loadConfig(cfg *config.Config) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfigAnnotation] == "true" {
			logger.Setup(logger.DevelopmentEnvironment)

			return nil
		}

		configPath, _ := cmd.Flags().GetString("config")
		envPath, _ := cmd.Flags().GetString("env")

		loaded, err := config.Load(configPath, envPath)
		if err != nil {
			return fmt.Errorf("could not load config: %w", err)
		}
		*cfg = *loaded

		logger.Setup(cfg.Environment)

		return nil
	}
}

// main sets up the root Cobra command and registers subcommands before
// executing the CLI. Configuration is loaded once the target command is known.
func main() {
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:               "registration",
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig(cfg),
	}
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")
	rootCmd.PersistentFlags().StringP("env", "e", ".env", "Env File Path")

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		migrateCommand(cfg),
		serveCommand(cfg),
		csrfCommand(cfg),
		registerCommand(),
	)

	err := rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
