package postgres

import (
	"registration/pkg/domain"
	"time"
)

type PgAccount struct {
	ID int64 `db:"id" goqu:"skipinsert"`

	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
	UpdatedAt time.Time `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgAccount) ToDomain() *domain.Account {
	return &domain.Account{
		ID:           domain.AccountID(p.ID),
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (p *PgAccount) FromDomain(account domain.Account) {
	*p = PgAccount{
		ID:           int64(account.ID),
		Name:         account.Name,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
}
