package mocks

import (
	"time"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/adapters/hashing"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/domain"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
)

const (
	StudentPassword = "student123"
	TeacherPassword = "teacher123"
)

// NewSeededStore returns a store holding the demo campus roster: three
// students in years 1-3 and two teachers, TEA002 mentored by TEA001.
func NewSeededStore() *MockCredentialStore {
	store := NewMockCredentialStore()

	studentDigest := hashing.Digest(StudentPassword)
	store.SeedStudent(domain.StudentRecord{StudentID: "STU001", Year: 1, PasswordHash: studentDigest, Name: "Alice"})
	store.SeedStudent(domain.StudentRecord{StudentID: "STU002", Year: 2, PasswordHash: studentDigest, Name: "Bob"})
	store.SeedStudent(domain.StudentRecord{StudentID: "STU003", Year: 3, PasswordHash: studentDigest, Name: "Charlie"})

	teacherDigest := hashing.Digest(TeacherPassword)
	phd := "PhD"
	store.SeedTeacher(domain.TeacherRecord{
		TeacherID:     "TEA001",
		PasswordHash:  teacherDigest,
		Name:          "Mr. Smith",
		Department:    "Computer Science",
		Email:         "smith@campus.edu",
		Phone:         "555-0101",
		JoiningYear:   2010,
		Designation:   "Professor",
		Qualification: &phd,
	})
	mentor := "TEA001"
	store.SeedTeacher(domain.TeacherRecord{
		TeacherID:    "TEA002",
		PasswordHash: teacherDigest,
		Name:         "Ms. Johnson",
		Department:   "Mathematics",
		Email:        "johnson@campus.edu",
		Phone:        "555-0102",
		JoiningYear:  2018,
		MentorID:     &mentor,
		Designation:  "Lecturer",
	})

	return store
}

// CreateTestEvent creates a sample auth attempt event.
func CreateTestEvent() ports.AuthAttemptEvent {
	return CreateTestEventWithData("test-event-id", "student", "STU001", ports.ResultGranted)
}

// CreateTestEventWithData creates a customized auth attempt event.
func CreateTestEventWithData(eventID, role, principalID, result string) ports.AuthAttemptEvent {
	return ports.AuthAttemptEvent{
		EventID:     eventID,
		Role:        role,
		PrincipalID: principalID,
		Result:      result,
		OccurredAt:  time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
		Duration:    2 * time.Millisecond,
	}
}
