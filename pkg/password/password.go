package password

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// AlgorithmArgon2id selects argon2id for new hashes.
	AlgorithmArgon2id = "argon2id"
	// AlgorithmBcrypt selects bcrypt for new hashes.
	AlgorithmBcrypt = "bcrypt"
)

var (
	// ErrUnknownHash is returned by Verify when the hash format is not recognized.
	ErrUnknownHash = errors.New("unknown password hash format")
	// ErrTooLong is returned by Hash when plaintext exceeds the algorithm's input limit.
	ErrTooLong = errors.New("password too long for hash algorithm")
)

// Options configures the Hasher returned by New.
type Options struct {
	// Algorithm is used for new hashes: AlgorithmArgon2id (default) or AlgorithmBcrypt.
	Algorithm string
	// Argon2 configures argon2id. Zero values use DefaultArgon2Params.
	Argon2 Argon2Params
	// BcryptCost configures bcrypt. Zero uses bcrypt.DefaultCost.
	BcryptCost int
}

// multi hashes with the configured algorithm and verifies hashes produced by
// any supported algorithm, so existing hashes stay valid after a switch.
type multi struct {
	primary Hasher
	argon2  *Argon2
	bcrypt  *Bcrypt
}

// New creates a Hasher from options.
func New(options Options) (Hasher, error) {
	m := &multi{
		argon2: NewArgon2(options.Argon2),
		bcrypt: NewBcrypt(options.BcryptCost),
	}

	switch strings.ToLower(options.Algorithm) {
	case "", AlgorithmArgon2id:
		m.primary = m.argon2
	case AlgorithmBcrypt:
		m.primary = m.bcrypt
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", options.Algorithm)
	}

	return m, nil
}

// MaxInputBytes reports the limit of the algorithm used for new hashes.
func (m *multi) MaxInputBytes() int {
	return MaxInputBytes(m.primary)
}

func (m *multi) Hash(plaintext string) (string, error) {
	return m.primary.Hash(plaintext) //nolint: wrapcheck
}

func (m *multi) Verify(plaintext, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, argonPrefix):
		return m.argon2.Verify(plaintext, hash)
	case isBcryptHash(hash):
		return m.bcrypt.Verify(plaintext, hash)
	default:
		return false, ErrUnknownHash
	}
}
