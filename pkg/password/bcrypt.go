package password

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt is a Hasher backed by bcrypt.
type Bcrypt struct {
	cost int
}

// BcryptMaxInputBytes is the longest password bcrypt accepts.
const BcryptMaxInputBytes = 72

// Ensure Bcrypt implements Hasher and Limiter.
var (
	_ Hasher  = (*Bcrypt)(nil)
	_ Limiter = (*Bcrypt)(nil)
)

// NewBcrypt creates a bcrypt Hasher. A cost outside bcrypt's accepted range
// falls back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Bcrypt{cost: cost}
}

// MaxInputBytes implements Limiter.
func (b *Bcrypt) MaxInputBytes() int {
	return BcryptMaxInputBytes
}

// Hash derives a bcrypt hash for plaintext. Passwords longer than
// BcryptMaxInputBytes are refused with ErrTooLong.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	if len(plaintext) > BcryptMaxInputBytes {
		return "", fmt.Errorf("%w: %d bytes exceed %d", ErrTooLong, len(plaintext), BcryptMaxInputBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("could not generate bcrypt hash: %w", err)
	}

	return string(hash), nil
}

// Verify compares plaintext with a bcrypt hash.
func (b *Bcrypt) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("could not compare bcrypt hash: %w", err)
	}
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}
