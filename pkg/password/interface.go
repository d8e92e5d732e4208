// Package password hashes and verifies account passwords with salted, slow,
// one-way functions. Hashes are self-describing strings so the algorithm and
// its parameters can be recovered at verification time.
package password

//go:generate mockgen -package mockpassword -source=interface.go -destination=mock/mockpassword.go *
type Hasher interface {
	// Hash derives an opaque hash from plaintext using a fresh random salt.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches the previously derived hash.
	// A malformed hash yields an error.
	Verify(plaintext, hash string) (bool, error)
}

// Limiter is implemented by hashers that only accept inputs up to a number
// of bytes.
type Limiter interface {
	// MaxInputBytes returns the longest accepted plaintext in bytes.
	MaxInputBytes() int
}

// MaxInputBytes returns the input limit of h, or 0 when h accepts any length.
func MaxInputBytes(h Hasher) int {
	if l, ok := h.(Limiter); ok {
		return l.MaxInputBytes()
	}

	return 0
}
