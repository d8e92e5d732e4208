package domain

import "time"

// AccountID uniquely identifies an account. It is assigned by the database.
type AccountID int64

// Account is a registered user account.
type Account struct {
	// ID is the unique identifier of the account.
	ID AccountID `json:"id"`

	// Name is the display name chosen at registration.
	Name string `json:"name"`
	// Email is the account's email address. It is unique across all accounts,
	// compared case-insensitively.
	Email string `json:"email"`
	// PasswordHash is the salted one-way hash of the account password. It is
	// never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the time when the account was registered.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time when the account was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}
