// Package hashing provides the PasswordHasher implementations: the legacy
// unsalted SHA-256 digest existing credential rows were seeded with, and
// the salted argon2id and bcrypt schemes they can be upgraded to.
package hashing

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
)

// SHA256Hasher is a single unsalted SHA-256 pass rendered as lowercase hex.
// It is kept for compatibility with existing rows only; it offers no
// resistance to offline guessing.
type SHA256Hasher struct{}

var _ ports.PasswordHasher = SHA256Hasher{}

func NewSHA256Hasher() SHA256Hasher {
	return SHA256Hasher{}
}

// Hash never fails; the error is part of the PasswordHasher contract.
func (SHA256Hasher) Hash(password string) (string, error) {
	return Digest(password), nil
}

func (SHA256Hasher) Verify(password, digest string) bool {
	computed := Digest(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// zeroDigest has the shape of a SHA-256 hex digest; no input hashes to it.
const zeroDigest = "0000000000000000000000000000000000000000000000000000000000000000"

func (SHA256Hasher) DummyDigest() string {
	return zeroDigest
}

// Digest returns the hex SHA-256 of the UTF-8 bytes of s.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
