package postgres

import (
	"context"
	"errors"
	"fmt"
	"registration/pkg/domain"
	"registration/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	accountsTable = "accounts"
)

// emailEq builds a case-insensitive email predicate matching the
// accounts_email_unique_idx expression index. Both sides are folded by
// postgres so the lookup agrees with the index for non-ASCII addresses.
func emailEq(email string) exp.Expression {
	return goqu.Func("LOWER", goqu.I("email")).Eq(goqu.Func("LOWER", email))
}

// isUniqueViolation reports whether err was raised by a unique constraint.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// AccountExistsByEmail reports whether an account owns the given email.
func (p *PgSQL) AccountExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := p.Builder.From(accountsTable).
		Where(emailEq(email)).
		CountContext(ctx)
	if err != nil {
		return false, fmt.Errorf("could not count accounts by email in pg: %w", err)
	}

	return count > 0, nil
}

// InsertAccount stores a new account and returns the stored row. A unique
// violation on the email index is reported as storage.ErrDuplicate.
func (p *PgSQL) InsertAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	var in PgAccount
	in.FromDomain(account)

	var row PgAccount
	found, err := p.Builder.Insert(accountsTable).
		Rows(in).
		Returning(&PgAccount{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email %q: %w", account.Email, storage.ErrDuplicate)
		}

		return nil, fmt.Errorf("could not store account into pg: %w", err)
	}
	if !found {
		return nil, errors.New("could not store account into pg: no row returned")
	}

	return row.ToDomain(), nil
}

// AccountByEmail returns the account owning the given email, or nil.
func (p *PgSQL) AccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var row PgAccount
	found, err := p.Builder.From(accountsTable).
		Where(emailEq(email)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch account by email: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}
