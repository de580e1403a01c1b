package hashing

import (
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
)

// Scheme names a digest format.
type Scheme string

const (
	SchemeSHA256   Scheme = "sha256"
	SchemeArgon2id Scheme = "argon2id"
	SchemeBcrypt   Scheme = "bcrypt"
)

// ParseScheme validates a configured scheme name.
func ParseScheme(name string) (Scheme, error) {
	switch s := Scheme(strings.ToLower(strings.TrimSpace(name))); s {
	case SchemeSHA256, SchemeArgon2id, SchemeBcrypt:
		return s, nil
	case "":
		return SchemeSHA256, nil
	default:
		return "", oops.Code("HASH_UNKNOWN_SCHEME").
			With("scheme", name).
			Errorf("unknown hash scheme %q", name)
	}
}

// DetectScheme infers the scheme from a stored digest. Anything that is not
// a PHC argon2id or bcrypt string is treated as the legacy hex digest.
func DetectScheme(digest string) Scheme {
	switch {
	case strings.HasPrefix(digest, argon2Prefix):
		return SchemeArgon2id
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		return SchemeBcrypt
	default:
		return SchemeSHA256
	}
}

// SchemeHasher hashes with one primary scheme and verifies any known scheme,
// so legacy rows keep working while new digests use the stronger format.
type SchemeHasher struct {
	primary Scheme
	hashers map[Scheme]ports.PasswordHasher
}

var _ ports.PasswordHasher = (*SchemeHasher)(nil)

func NewSchemeHasher(primary Scheme) (*SchemeHasher, error) {
	scheme, err := ParseScheme(string(primary))
	if err != nil {
		return nil, err
	}
	return &SchemeHasher{
		primary: scheme,
		hashers: map[Scheme]ports.PasswordHasher{
			SchemeSHA256:   NewSHA256Hasher(),
			SchemeArgon2id: NewArgon2idHasher(DefaultArgon2Params()),
			SchemeBcrypt:   NewBcryptHasher(bcrypt.DefaultCost),
		},
	}, nil
}

func (h *SchemeHasher) Primary() Scheme {
	return h.primary
}

func (h *SchemeHasher) Hash(password string) (string, error) {
	return h.hashers[h.primary].Hash(password)
}

func (h *SchemeHasher) Verify(password, digest string) bool {
	return h.hashers[DetectScheme(digest)].Verify(password, digest)
}

// DummyDigest comes from the primary scheme, the one upgraded rows use.
func (h *SchemeHasher) DummyDigest() string {
	return h.hashers[h.primary].DummyDigest()
}

// NeedsUpgrade reports whether digest was produced by a scheme other than
// the primary one.
func (h *SchemeHasher) NeedsUpgrade(digest string) bool {
	return DetectScheme(digest) != h.primary
}
