package storage

import (
	"context"
	"registration/pkg/domain"
)

// AccountStorage defines persistence operations for registered accounts.
// Email comparisons are case-insensitive in every method.
type AccountStorage interface {
	// AccountExistsByEmail reports whether an account with the given email exists.
	AccountExistsByEmail(ctx context.Context, email string) (bool, error)
	// InsertAccount stores a new account and returns it as stored, including the
	// generated ID and timestamps. It returns ErrDuplicate when another account
	// already owns the email.
	InsertAccount(ctx context.Context, account domain.Account) (*domain.Account, error)
	// AccountByEmail fetches an account by email. Returns nil when not found.
	AccountByEmail(ctx context.Context, email string) (*domain.Account, error)
}
