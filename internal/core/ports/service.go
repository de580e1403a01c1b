package ports

import (
	"context"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/domain"
)

// AuthService is the single entry point transports call. Malformed input
// never produces an error: it resolves to a denied outcome. The only error
// returned is a *domain.StorageError.
type AuthService interface {
	Authenticate(ctx context.Context, creds domain.Credentials) (domain.Outcome, error)
}

// PasswordHasher is a one-way transform plus comparison for credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password hashes to digest. Malformed digests
	// never match.
	Verify(password, digest string) bool
	// DummyDigest is a well-formed digest in the hasher's own scheme that no
	// password matches. Verifying against it costs the same as a real row.
	DummyDigest() string
}
