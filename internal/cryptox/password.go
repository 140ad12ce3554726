// Package cryptox implements the credential codec: salted password hashing
// and verification built on PBKDF2-SHA512.
package cryptox

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// saltSize is the number of random bytes in a salt before hex encoding.
	saltSize = 16

	// keySize is the length of the derived key in bytes.
	keySize = 64

	// DefaultIterations is the PBKDF2 work factor applied when the caller
	// does not configure one.
	DefaultIterations = 10000
)

// NewSalt returns a fresh per-user salt: saltSize bytes from crypto/rand,
// hex-encoded. The salt is generated once at user creation and never changes.
func NewSalt() (string, error) {
	b := make([]byte, saltSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashPassword derives a hex-encoded key from password and salt using
// PBKDF2-SHA512 with the given iteration count. The derivation is
// deterministic: the same inputs always produce the same output.
func HashPassword(password, salt string, iterations int) string {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keySize, sha512.New)
	return hex.EncodeToString(key)
}

// VerifyPassword recomputes the hash for the candidate password and compares
// it to the stored hash in constant time.
func VerifyPassword(password, hash, salt string, iterations int) bool {
	candidate := HashPassword(password, salt, iterations)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1
}
