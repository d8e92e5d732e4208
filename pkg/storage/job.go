package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs next to the data they refer to.
// When called on a TxStorage (or inside WithTx) the job becomes visible only
// if the surrounding transaction commits, so a job never references a row
// that was rolled back.
//
// Example:
//
//	err := strg.WithTx(ctx, func(tx storage.AllStorage) error {
//		account, err := tx.InsertAccount(ctx, a)
//		if err != nil { return err }
//		_, err = tx.AddJob(ctx, registration.AccountRegisteredArgs{AccountID: int64(account.ID)}, nil)
//		return err
//	})
type JobStorage interface {
	// AddJob enqueues a new job with the given arguments. It reports false when
	// the job was skipped as a duplicate of an existing unique job.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
