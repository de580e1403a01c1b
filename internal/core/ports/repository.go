package ports

import (
	"context"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/domain"
)

// CredentialStore is a read-only view over persisted credential records.
// Both lookups return domain.ErrNotFound (possibly wrapped) when nothing
// matches; any other error means the backend could not answer.
type CredentialStore interface {
	// FindStudent matches on both id and year; a correct id with the wrong
	// year is not a match.
	FindStudent(ctx context.Context, studentID string, year int) (*domain.StudentRecord, error)
	FindTeacher(ctx context.Context, teacherID string) (*domain.TeacherRecord, error)
}
