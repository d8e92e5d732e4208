package registration

import (
	"time"

	"github.com/riverqueue/river"
)

// AccountRegisteredArgs is the River job enqueued in the same transaction as
// a new account. Its worker announces the registration to downstream
// consumers once the transaction has committed.
type AccountRegisteredArgs struct {
	AccountID    int64     `json:"accountId"    river:"unique"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registeredAt"`

	// maxAttempts configures the maximum number of times River should retry the job.
	maxAttempts int
}

// Kind returns the River job kind used to register and dispatch the worker.
func (args AccountRegisteredArgs) Kind() string { return "AccountRegistered" }

// InsertOpts returns the River options that control how the job is enqueued.
// Uniqueness by account ID keeps a retried transaction from announcing the
// same account twice.
func (args AccountRegisteredArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	}
}
