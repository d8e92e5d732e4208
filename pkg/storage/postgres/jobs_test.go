package postgres_test

import (
	"context"
	"database/sql"
	"registration/internal/registration"
	"registration/pkg/storage/postgres"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertest"
	"github.com/stretchr/testify/require"
)

func accountRegisteredArgs(id int64) registration.AccountRegisteredArgs {
	return registration.AccountRegisteredArgs{
		AccountID:    id,
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		RegisteredAt: time.Now().UTC(),
	}
}

func migrateRiver(t *testing.T, storage *postgres.PgSQL) {
	t.Helper()
	migrator, err := rivermigrate.New(riverdatabasesql.New(storage.DB.(*sql.DB)), nil)
	require.NoError(t, err)
	migrations := migrator.AllVersions()
	latestVersion := migrations[len(migrations)-1].Version
	_, err = migrator.Migrate(t.Context(), rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{
		TargetVersion: latestVersion,
	})
	require.NoError(t, err)
}

func TestPgSQL_AddJob_WithinTransaction_UsesTxPath(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	migrateRiver(t, pg)

	ctx := context.Background()

	// Start a transaction to force the *sql.Tx code path in AddJob.
	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = txStorage.Rollback() }()

	added, err := txStorage.AddJob(ctx, accountRegisteredArgs(1), nil)
	require.NoError(t, err)
	require.True(t, added)
	rivertest.RequireInsertedTx[*riverdatabasesql.Driver](
		ctx,
		t,
		txStorage.(*postgres.PgSQL).DB.(*sql.Tx),
		&registration.AccountRegisteredArgs{},
		nil,
	)
}

func TestPgSQL_AddJob_OutsideTransaction_UsesDBPath(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	migrateRiver(t, pg)

	ctx := context.Background()

	_, err := pg.AddJob(ctx, accountRegisteredArgs(2), &river.InsertOpts{})
	require.NoError(t, err)
	rivertest.RequireInserted[*riverdatabasesql.Driver](
		ctx,
		t,
		riverdatabasesql.New(pg.DB.(*sql.DB)),
		&registration.AccountRegisteredArgs{},
		nil,
	)
}

func TestPgSQL_AddJob_UniqueByAccount(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	migrateRiver(t, pg)

	ctx := context.Background()
	args := accountRegisteredArgs(3)

	added, err := pg.AddJob(ctx, args, nil)
	require.NoError(t, err)
	require.True(t, added)

	added, err = pg.AddJob(ctx, args, nil)
	require.NoError(t, err)
	require.False(t, added, "a second job for the same account must be skipped")
}

func TestPgSQL_AddJob_RolledBackJobIsDiscarded(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	migrateRiver(t, pg)

	ctx := context.Background()

	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)
	added, err := txStorage.AddJob(ctx, accountRegisteredArgs(4), nil)
	require.NoError(t, err)
	require.True(t, added)
	require.NoError(t, txStorage.Rollback())

	rivertest.RequireNotInserted[*riverdatabasesql.Driver](
		ctx,
		t,
		riverdatabasesql.New(pg.DB.(*sql.DB)),
		&registration.AccountRegisteredArgs{},
		nil,
	)
}

func TestPgSQL_AddJob_WithoutClient(t *testing.T) {
	var pg postgres.PgSQL

	_, err := pg.AddJob(context.Background(), accountRegisteredArgs(5), nil)
	require.Error(t, err)
}
