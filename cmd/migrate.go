package main

import (
	"context"
	"database/sql"
	"fmt"
	root "registration"
	"registration/internal/config"
	"registration/pkg/logger"

	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCommand constructs the 'migrate' subcommand. It applies the embedded
// accounts schema with goose, then River's job tables.
func migrateCommand(cfg *config.Config) *cobra.Command {
	var skipRiver bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates the accounts schema and the job queue tables to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			db := strg.DB.(*sql.DB)

			version, err := migrateSchema(ctx, db)
			if err != nil {
				logger.Fatal(ctx, "could not migrate accounts schema", zap.Error(err))
			}
			logger.Info(ctx, "accounts schema is up to date", zap.Int64("version", version))

			if skipRiver {
				return
			}

			applied, err := migrateQueue(ctx, db)
			if err != nil {
				logger.Fatal(ctx, "could not migrate job queue", zap.Error(err))
			}
			logger.Info(ctx, "job queue tables are up to date", zap.Ints("applied", applied))
		},
	}

	cmd.Flags().BoolVar(&skipRiver, "skip-queue", false, "only migrate the accounts schema")

	return cmd
}

// migrateSchema applies the embedded goose migrations and returns the resulting version.
func migrateSchema(ctx context.Context, db *sql.DB) (int64, error) {
	goose.SetBaseFS(root.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return 0, fmt.Errorf("could not set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return 0, fmt.Errorf("could not apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("could not read schema version: %w", err)
	}

	return version, nil
}

// migrateQueue brings River's tables to the latest version and returns the
// versions it applied, which is empty when nothing was pending.
func migrateQueue(ctx context.Context, db *sql.DB) ([]int, error) {
	migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create river migrator: %w", err)
	}

	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return nil, fmt.Errorf("could not apply river migrations: %w", err)
	}

	applied := make([]int, 0, len(res.Versions))
	for _, v := range res.Versions {
		applied = append(applied, v.Version)
	}

	return applied, nil
}
