package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lib/pq"
	"github.com/samber/oops"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/config"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/domain"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
)

const (
	selectStudent = `
		SELECT student_id, year, password_hash, COALESCE(name, '')
		FROM students
		WHERE student_id = $1 AND year = $2`

	selectTeacher = `
		SELECT teacher_id, password_hash, COALESCE(name, ''), COALESCE(department, ''),
		       COALESCE(email, ''), COALESCE(phone, ''), COALESCE(joining_year, 0),
		       mentor_id, COALESCE(designation, ''), qualification, specialization
		FROM teachers
		WHERE teacher_id = $1`

	// maxKeyLen bounds principal ids sent to the store. No seeded or
	// provisioned id comes close.
	maxKeyLen = 255
)

// SQLRepository implements ports.CredentialStore over PostgreSQL. It only
// reads; schema creation and seeding happen elsewhere. *sql.DB pools
// connections, so concurrent lookups need no extra locking.
type SQLRepository struct {
	db           *sql.DB
	cb           *gobreaker.CircuitBreaker
	queryTimeout time.Duration
}

var _ ports.CredentialStore = (*SQLRepository)(nil)

func NewSQLRepository(db *sql.DB, queryTimeout time.Duration) *SQLRepository {
	return &SQLRepository{
		db:           db,
		cb:           config.NewCircuitBreaker(config.BreakerPostgres),
		queryTimeout: queryTimeout,
	}
}

// BreakerState exposes the lookup breaker for readiness checks.
func (r *SQLRepository) BreakerState() gobreaker.State {
	return r.cb.State()
}

// storableKey reports whether PostgreSQL could hold id in a TEXT column.
// Anything else cannot match a row.
func storableKey(id string) bool {
	return len(id) <= maxKeyLen && utf8.ValidString(id) && !strings.ContainsRune(id, 0)
}

// storableYear reports whether year fits the INTEGER year column.
func storableYear(year int) bool {
	return year >= math.MinInt32 && year <= math.MaxInt32
}

// isDataException matches SQLSTATE class 22: the server rejected a
// parameter value, which says nothing about the health of the backend.
func isDataException(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Class() == "22"
}

func (r *SQLRepository) FindStudent(ctx context.Context, studentID string, year int) (*domain.StudentRecord, error) {
	if !storableKey(studentID) || !storableYear(year) {
		return nil, studentNotFound(studentID)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.cb.Execute(func() (interface{}, error) {
		var rec domain.StudentRecord
		err := r.db.QueryRowContext(ctx, selectStudent, studentID, year).
			Scan(&rec.StudentID, &rec.Year, &rec.PasswordHash, &rec.Name)
		if errors.Is(err, sql.ErrNoRows) || isDataException(err) {
			// absence is an answer, not a backend failure
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &rec, nil
	})
	if err != nil {
		return nil, lookupError(err, "STORE_STUDENT_LOOKUP_FAILED").
			With("operation", "find student").
			With("student_id", studentID).
			With("year", year).
			Wrap(err)
	}
	if res == nil {
		return nil, studentNotFound(studentID)
	}
	return res.(*domain.StudentRecord), nil
}

func (r *SQLRepository) FindTeacher(ctx context.Context, teacherID string) (*domain.TeacherRecord, error) {
	if !storableKey(teacherID) {
		return nil, teacherNotFound(teacherID)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.cb.Execute(func() (interface{}, error) {
		var (
			rec            domain.TeacherRecord
			mentorID       sql.NullString
			qualification  sql.NullString
			specialization sql.NullString
		)
		err := r.db.QueryRowContext(ctx, selectTeacher, teacherID).Scan(
			&rec.TeacherID,
			&rec.PasswordHash,
			&rec.Name,
			&rec.Department,
			&rec.Email,
			&rec.Phone,
			&rec.JoiningYear,
			&mentorID,
			&rec.Designation,
			&qualification,
			&specialization,
		)
		if errors.Is(err, sql.ErrNoRows) || isDataException(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		rec.MentorID = nullableString(mentorID)
		rec.Qualification = nullableString(qualification)
		rec.Specialization = nullableString(specialization)
		return &rec, nil
	})
	if err != nil {
		return nil, lookupError(err, "STORE_TEACHER_LOOKUP_FAILED").
			With("operation", "find teacher").
			With("teacher_id", teacherID).
			Wrap(err)
	}
	if res == nil {
		return nil, teacherNotFound(teacherID)
	}
	return res.(*domain.TeacherRecord), nil
}

func (r *SQLRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

// lookupError picks the oops code: an open breaker means the store was not
// even asked.
func lookupError(err error, code string) oops.OopsErrorBuilder {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return oops.Code("STORE_UNAVAILABLE")
	}
	return oops.Code(code)
}

func studentNotFound(studentID string) error {
	return oops.Code("STUDENT_NOT_FOUND").
		With("student_id", studentID).
		Wrap(domain.ErrNotFound)
}

func teacherNotFound(teacherID string) error {
	return oops.Code("TEACHER_NOT_FOUND").
		With("teacher_id", teacherID).
		Wrap(domain.ErrNotFound)
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
