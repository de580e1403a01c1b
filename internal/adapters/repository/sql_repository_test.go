package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/samber/oops"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/domain"
)

var (
	studentQuery = regexp.QuoteMeta(`WHERE student_id = $1 AND year = $2`)
	teacherQuery = regexp.QuoteMeta(`WHERE teacher_id = $1`)
)

func newMockRepo(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLRepository(db, time.Second), mock
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	assert.Equal(t, code, oopsErr.Code())
}

func TestSQLRepository_FindStudent(t *testing.T) {
	t.Run("returns the record when id and year match", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(studentQuery).
			WithArgs("STU001", 1).
			WillReturnRows(sqlmock.NewRows([]string{"student_id", "year", "password_hash", "name"}).
				AddRow("STU001", 1, "digest", "Alice"))

		rec, err := repo.FindStudent(context.Background(), "STU001", 1)
		require.NoError(t, err)
		assert.Equal(t, &domain.StudentRecord{StudentID: "STU001", Year: 1, PasswordHash: "digest", Name: "Alice"}, rec)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row is ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(studentQuery).
			WithArgs("STU001", 2).
			WillReturnError(sql.ErrNoRows)

		rec, err := repo.FindStudent(context.Background(), "STU001", 2)
		assert.Nil(t, rec)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assertCode(t, err, "STUDENT_NOT_FOUND")
	})

	t.Run("driver failure is not ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		boom := errors.New("connection reset by peer")
		mock.ExpectQuery(studentQuery).WillReturnError(boom)

		_, err := repo.FindStudent(context.Background(), "STU001", 1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, err, boom)
		assertCode(t, err, "STORE_STUDENT_LOOKUP_FAILED")
	})
}

func TestSQLRepository_FindTeacher(t *testing.T) {
	columns := []string{
		"teacher_id", "password_hash", "name", "department", "email", "phone",
		"joining_year", "mentor_id", "designation", "qualification", "specialization",
	}

	t.Run("maps nullable columns", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(teacherQuery).
			WithArgs("TEA002").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				"TEA002", "digest", "Ms. Johnson", "Computer Science", "johnson@campus.edu", "555-0102",
				2015, "TEA001", "Associate Professor", nil, "Distributed Systems",
			))

		rec, err := repo.FindTeacher(context.Background(), "TEA002")
		require.NoError(t, err)
		assert.Equal(t, "Computer Science", rec.Department)
		assert.Equal(t, 2015, rec.JoiningYear)
		require.NotNil(t, rec.MentorID)
		assert.Equal(t, "TEA001", *rec.MentorID)
		assert.Nil(t, rec.Qualification)
		require.NotNil(t, rec.Specialization)
		assert.Equal(t, "Distributed Systems", *rec.Specialization)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row is ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(teacherQuery).WithArgs("TEA404").WillReturnError(sql.ErrNoRows)

		_, err := repo.FindTeacher(context.Background(), "TEA404")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSQLRepository_BreakerOpensOnRepeatedFailures(t *testing.T) {
	repo, mock := newMockRepo(t)
	for i := 0; i < 3; i++ {
		mock.ExpectQuery(teacherQuery).WillReturnError(errors.New("connection refused"))
	}

	for i := 0; i < 3; i++ {
		_, err := repo.FindTeacher(context.Background(), "TEA001")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, repo.BreakerState())

	// no query reaches the database while open
	_, err := repo.FindTeacher(context.Background(), "TEA001")
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assertCode(t, err, "STORE_UNAVAILABLE")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_NotFoundDoesNotTripBreaker(t *testing.T) {
	repo, mock := newMockRepo(t)
	for i := 0; i < 5; i++ {
		mock.ExpectQuery(teacherQuery).WillReturnError(sql.ErrNoRows)
	}

	for i := 0; i < 5; i++ {
		_, err := repo.FindTeacher(context.Background(), "TEA404")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, repo.BreakerState())
}

func TestSQLRepository_UnstorableKeysAreNotFoundWithoutQuery(t *testing.T) {
	overlong := "STU" + strings.Repeat("0", maxKeyLen)

	students := []struct {
		name string
		id   string
		year int
	}{
		{name: "year above int32", id: "STU001", year: 3000000000},
		{name: "year below int32", id: "STU001", year: math.MinInt32 - 1},
		{name: "NUL in id", id: "STU\x00001", year: 1},
		{name: "invalid UTF-8 in id", id: "STU\xff", year: 1},
		{name: "overlong id", id: overlong, year: 1},
	}
	for _, tt := range students {
		t.Run("student "+tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			// every attempt must come back as a plain miss
			for i := 0; i < 5; i++ {
				rec, err := repo.FindStudent(context.Background(), tt.id, tt.year)
				assert.Nil(t, rec)
				assert.ErrorIs(t, err, domain.ErrNotFound)
				assertCode(t, err, "STUDENT_NOT_FOUND")
			}
			assert.Equal(t, gobreaker.StateClosed, repo.BreakerState())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	teachers := map[string]string{
		"NUL in id":           "TEA\x00001",
		"invalid UTF-8 in id": "TEA\xfe",
		"overlong id":         "TEA" + strings.Repeat("9", maxKeyLen),
	}
	for name, id := range teachers {
		t.Run("teacher "+name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			for i := 0; i < 5; i++ {
				_, err := repo.FindTeacher(context.Background(), id)
				assert.ErrorIs(t, err, domain.ErrNotFound)
				assertCode(t, err, "TEACHER_NOT_FOUND")
			}
			assert.Equal(t, gobreaker.StateClosed, repo.BreakerState())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLRepository_DataExceptionIsNotFound(t *testing.T) {
	for _, code := range []pq.ErrorCode{"22003", "22021", "22P02"} {
		t.Run(string(code), func(t *testing.T) {
			repo, mock := newMockRepo(t)
			for i := 0; i < 5; i++ {
				mock.ExpectQuery(studentQuery).WillReturnError(&pq.Error{Code: code, Message: "data exception"})
			}

			for i := 0; i < 5; i++ {
				_, err := repo.FindStudent(context.Background(), "STU001", 1)
				assert.ErrorIs(t, err, domain.ErrNotFound)
				assert.False(t, domain.IsStorageError(err))
			}
			assert.Equal(t, gobreaker.StateClosed, repo.BreakerState())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("other SQLSTATE classes still count as failures", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		for i := 0; i < 3; i++ {
			mock.ExpectQuery(teacherQuery).WillReturnError(&pq.Error{Code: "08006", Message: "connection failure"})
		}

		for i := 0; i < 3; i++ {
			_, err := repo.FindTeacher(context.Background(), "TEA001")
			assert.NotErrorIs(t, err, domain.ErrNotFound)
		}
		assert.Equal(t, gobreaker.StateOpen, repo.BreakerState())
	})
}
