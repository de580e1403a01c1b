package services

import (
	"context"
	"errors"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/domain"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
)

// Identity is an ephemeral, role-typed principal built for a single attempt.
// The set of implementations is closed: Student and Teacher.
type Identity interface {
	Role() domain.Role
	PrincipalID() string
	// Verify consults the store and hasher. It returns an error only when
	// the store could not answer.
	Verify(ctx context.Context, store ports.CredentialStore, hasher ports.PasswordHasher) (domain.Outcome, error)

	sealed()
}

// Student authenticates against the students table; id and year must both match.
type Student struct {
	principalID string
	password    string
	year        int
}

func (s *Student) Role() domain.Role   { return domain.RoleStudent }
func (s *Student) PrincipalID() string { return s.principalID }
func (s *Student) Year() int           { return s.year }
func (s *Student) sealed()             {}

func (s *Student) Verify(ctx context.Context, store ports.CredentialStore, hasher ports.PasswordHasher) (domain.Outcome, error) {
	record, err := store.FindStudent(ctx, s.principalID, s.year)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Same hashing work as a real mismatch
			hasher.Verify(s.password, hasher.DummyDigest())
			return domain.Deny(domain.ReasonNoRecord), nil
		}
		return domain.Outcome{}, &domain.StorageError{Op: "find student", Err: err}
	}

	if !hasher.Verify(s.password, record.PasswordHash) {
		return domain.Deny(domain.ReasonPasswordMismatch), nil
	}
	return domain.GrantStudent(), nil
}

// Teacher authenticates against the teachers table and surfaces the stored
// profile on success.
type Teacher struct {
	principalID string
	password    string
}

func (t *Teacher) Role() domain.Role   { return domain.RoleTeacher }
func (t *Teacher) PrincipalID() string { return t.principalID }
func (t *Teacher) sealed()             {}

func (t *Teacher) Verify(ctx context.Context, store ports.CredentialStore, hasher ports.PasswordHasher) (domain.Outcome, error) {
	record, err := store.FindTeacher(ctx, t.principalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			hasher.Verify(t.password, hasher.DummyDigest())
			return domain.Deny(domain.ReasonNoRecord), nil
		}
		return domain.Outcome{}, &domain.StorageError{Op: "find teacher", Err: err}
	}

	if !hasher.Verify(t.password, record.PasswordHash) {
		return domain.Deny(domain.ReasonPasswordMismatch), nil
	}
	return domain.GrantTeacher(record.Profile()), nil
}
