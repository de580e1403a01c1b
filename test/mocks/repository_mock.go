// Package mocks provides in-memory implementations of the port interfaces
// for tests. Services depend on ports, so tests inject these instead of the
// PostgreSQL, RabbitMQ and Redis adapters.
package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/domain"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
)

// StudentLookup is one recorded FindStudent call.
type StudentLookup struct {
	StudentID string
	Year      int
}

// MockCredentialStore implements ports.CredentialStore for testing.
type MockCredentialStore struct {
	mu sync.RWMutex

	students map[string]domain.StudentRecord
	teachers map[string]domain.TeacherRecord

	// Call tracking for verification
	FindStudentCalls []StudentLookup
	FindTeacherCalls []string

	// Error injection for testing error scenarios
	FindStudentError error
	FindTeacherError error
}

var _ ports.CredentialStore = (*MockCredentialStore)(nil)

func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{
		students: make(map[string]domain.StudentRecord),
		teachers: make(map[string]domain.TeacherRecord),
	}
}

// SeedStudent adds a student record for test setup.
func (m *MockCredentialStore) SeedStudent(rec domain.StudentRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[rec.StudentID] = rec
}

// SeedTeacher adds a teacher record for test setup.
func (m *MockCredentialStore) SeedTeacher(rec domain.TeacherRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teachers[rec.TeacherID] = rec
}

// FindStudent matches on both id and year like the SQL adapter.
func (m *MockCredentialStore) FindStudent(ctx context.Context, studentID string, year int) (*domain.StudentRecord, error) {
	m.mu.Lock()
	m.FindStudentCalls = append(m.FindStudentCalls, StudentLookup{StudentID: studentID, Year: year})
	injected := m.FindStudentError
	m.mu.Unlock()

	if injected != nil {
		return nil, injected
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.students[studentID]
	if !ok || rec.Year != year {
		return nil, fmt.Errorf("student %s/%d: %w", studentID, year, domain.ErrNotFound)
	}
	return &rec, nil
}

func (m *MockCredentialStore) FindTeacher(ctx context.Context, teacherID string) (*domain.TeacherRecord, error) {
	m.mu.Lock()
	m.FindTeacherCalls = append(m.FindTeacherCalls, teacherID)
	injected := m.FindTeacherError
	m.mu.Unlock()

	if injected != nil {
		return nil, injected
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.teachers[teacherID]
	if !ok {
		return nil, fmt.Errorf("teacher %s: %w", teacherID, domain.ErrNotFound)
	}
	return &rec, nil
}

// CallCount returns the total number of lookups of either kind.
func (m *MockCredentialStore) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.FindStudentCalls) + len(m.FindTeacherCalls)
}
