package hashing

import (
	"crypto/rand"
	"sync"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
)

type BcryptHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     string
}

var _ ports.PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher clamps cost into bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", oops.Code("HASH_BCRYPT_FAILED").Wrap(err)
	}
	return string(out), nil
}

func (h *BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// DummyDigest is a real bcrypt hash of a random secret at the configured
// cost, generated on first use.
func (h *BcryptHasher) DummyDigest() string {
	h.dummyOnce.Do(func() {
		out, err := bcrypt.GenerateFromPassword([]byte(rand.Text()), h.cost)
		if err == nil {
			h.dummy = string(out)
		}
	})
	return h.dummy
}
