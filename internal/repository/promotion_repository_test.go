package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
)

func promoteParams() PromoteStudentParams {
	return PromoteStudentParams{
		StudentID:    "stu-1",
		FromStreamID: "form2-east",
		FromYearID:   "year-2026",
		ToStreamID:   "form3-east",
		ToYearID:     "year-2027",
		ToTermID:     "term-1",
	}
}

func TestPromotionRepositoryPromoteStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPromotionRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, student_id, stream_id, academic_year_id, term_id, status, created_at, updated_at FROM enrollments").
		WithArgs("stu-1", "form2-east", "year-2026").
		WillReturnRows(enrollmentRows().
			AddRow("en-old", "stu-1", "form2-east", "year-2026", "term-1", models.EnrollmentStatusTransferred, now.Add(-time.Hour), now).
			AddRow("en-src", "stu-1", "form2-east", "year-2026", "term-2", models.EnrollmentStatusActive, now, now))
	mock.ExpectExec("UPDATE enrollments SET status").
		WithArgs("en-src", models.EnrollmentStatusTransferred, sqlmock.AnyArg(), models.EnrollmentStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs(sqlmock.AnyArg(), "stu-1", "form3-east", "year-2027", "term-1", models.EnrollmentStatusActive, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	enrollment, err := repo.PromoteStudent(context.Background(), promoteParams())
	require.NoError(t, err)
	require.Equal(t, "form3-east", enrollment.StreamID)
	require.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPromotionRepositoryPromoteStudentNotEnrolled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPromotionRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, student_id, stream_id, academic_year_id, term_id, status, created_at, updated_at FROM enrollments").
		WithArgs("stu-1", "form2-east", "year-2026").
		WillReturnRows(enrollmentRows().
			AddRow("en-old", "stu-1", "form2-east", "year-2026", "term-1", models.EnrollmentStatusTransferred, now, now))
	mock.ExpectRollback()

	_, err := repo.PromoteStudent(context.Background(), promoteParams())
	require.ErrorIs(t, err, ErrNotEnrolledInSource)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPromotionRepositoryPromoteStudentLosesRace(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPromotionRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, student_id, stream_id, academic_year_id, term_id, status, created_at, updated_at FROM enrollments").
		WithArgs("stu-1", "form2-east", "year-2026").
		WillReturnRows(enrollmentRows().
			AddRow("en-src", "stu-1", "form2-east", "year-2026", "term-1", models.EnrollmentStatusActive, now, now))
	mock.ExpectExec("UPDATE enrollments SET status").
		WithArgs("en-src", models.EnrollmentStatusTransferred, sqlmock.AnyArg(), models.EnrollmentStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.PromoteStudent(context.Background(), promoteParams())
	require.ErrorIs(t, err, ErrNotEnrolledInSource)
	require.NoError(t, mock.ExpectationsWereMet())
}
