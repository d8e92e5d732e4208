package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argonFormat is the PHC string layout:
// $argon2id$v={version}$m={memory},t={iterations},p={parallelism}${salt}${hash}
const argonFormat = "$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s"

const argonPrefix = "$argon2id$"

// Argon2Params configures the argon2id key derivation.
type Argon2Params struct {
	// Memory is the amount of memory used, in KiB.
	Memory uint32
	// Iterations is the number of passes over the memory.
	Iterations uint32
	// Parallelism is the number of threads used.
	Parallelism uint8
	// SaltLength is the number of random salt bytes.
	SaltLength uint32
	// KeyLength is the length of the derived key in bytes.
	KeyLength uint32
}

// DefaultArgon2Params follows the OWASP baseline for argon2id.
var DefaultArgon2Params = Argon2Params{ //nolint: gochecknoglobals
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Argon2 is a Hasher backed by argon2id.
type Argon2 struct {
	params Argon2Params
}

// Ensure Argon2 implements Hasher.
var _ Hasher = (*Argon2)(nil)

// NewArgon2 creates an argon2id Hasher. Zero fields of params fall back to
// DefaultArgon2Params.
func NewArgon2(params Argon2Params) *Argon2 {
	if params.Memory == 0 {
		params.Memory = DefaultArgon2Params.Memory
	}
	if params.Iterations == 0 {
		params.Iterations = DefaultArgon2Params.Iterations
	}
	if params.Parallelism == 0 {
		params.Parallelism = DefaultArgon2Params.Parallelism
	}
	if params.SaltLength == 0 {
		params.SaltLength = DefaultArgon2Params.SaltLength
	}
	if params.KeyLength == 0 {
		params.KeyLength = DefaultArgon2Params.KeyLength
	}

	return &Argon2{params: params}
}

// Hash derives an argon2id PHC string for plaintext.
func (a *Argon2) Hash(plaintext string) (string, error) {
	salt := make([]byte, a.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("could not generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt,
		a.params.Iterations, a.params.Memory, a.params.Parallelism, a.params.KeyLength)

	return fmt.Sprintf(argonFormat,
		argon2.Version,
		a.params.Memory,
		a.params.Iterations,
		a.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify recomputes the key with the parameters stored in hash and compares
// it in constant time.
func (a *Argon2) Verify(plaintext, hash string) (bool, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid argon2 hash: expected 6 parts, got %d", len(parts))
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("invalid argon2 hash: unexpected variant %q", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("could not parse argon2 version: %w", err)
	}
	if version != argon2.Version {
		return false, fmt.Errorf("incompatible argon2 version: %d", version)
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("could not parse argon2 parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("could not decode argon2 salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("could not decode argon2 key: %w", err)
	}
	if len(key) == 0 {
		return false, errors.New("invalid argon2 hash: empty key")
	}

	other := argon2.IDKey([]byte(plaintext), salt, iterations, memory, parallelism, uint32(len(key))) //nolint: gosec

	return subtle.ConstantTimeCompare(key, other) == 1, nil
}
