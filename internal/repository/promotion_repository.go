package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
)

// ErrNotEnrolledInSource signals that the student has no ACTIVE enrollment
// in the source stream and year. It covers both a plain absence and losing
// a race to a concurrent promotion of the same student.
var ErrNotEnrolledInSource = errors.New("not currently enrolled in source class")

// PromoteStudentParams describes one student's transition.
type PromoteStudentParams struct {
	StudentID    string
	FromStreamID string
	FromYearID   string
	ToStreamID   string
	ToYearID     string
	ToTermID     string
}

// PromotionRepository executes per-student enrollment transitions. Each
// transition runs in its own transaction so one student's failure cannot
// roll back another's committed success.
type PromotionRepository struct {
	db *sqlx.DB
}

// NewPromotionRepository constructs the repository.
func NewPromotionRepository(db *sqlx.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// PromoteStudent transitions one student atomically: it resolves the source
// enrollment under lock, marks it TRANSFERRED and inserts the destination
// row. The TRANSFERRED update carries an optimistic status guard; if a
// concurrent promotion got there first the update matches zero rows and the
// transition fails with ErrNotEnrolledInSource.
func (r *PromotionRepository) PromoteStudent(ctx context.Context, params PromoteStudentParams) (*models.Enrollment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin promotion tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`SELECT %s FROM enrollments
        WHERE student_id = $1 AND stream_id = $2 AND academic_year_id = $3 FOR UPDATE`, enrollmentColumns)
	var rows []models.Enrollment
	if err := tx.SelectContext(ctx, &rows, query, params.StudentID, params.FromStreamID, params.FromYearID); err != nil {
		return nil, fmt.Errorf("load source enrollments: %w", err)
	}

	source := models.CurrentEnrollment(rows)
	if source == nil {
		return nil, ErrNotEnrolledInSource
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE enrollments SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`,
		source.ID, models.EnrollmentStatusTransferred, now, models.EnrollmentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("mark source transferred: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check transferred rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotEnrolledInSource
	}

	next := &models.Enrollment{
		ID:             uuid.NewString(),
		StudentID:      params.StudentID,
		StreamID:       params.ToStreamID,
		AcademicYearID: params.ToYearID,
		TermID:         params.ToTermID,
		Status:         models.EnrollmentStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO enrollments (id, student_id, stream_id, academic_year_id, term_id, status, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		next.ID, next.StudentID, next.StreamID, next.AcademicYearID, next.TermID, next.Status, next.CreatedAt, next.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert destination enrollment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit promotion tx: %w", err)
	}
	return next, nil
}
