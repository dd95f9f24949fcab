package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
)

// EnrollmentRepository handles persistence of enrollment rows. Rows are
// append-only: corrections and promotions insert superseding rows and flip
// the old row's status, they never delete.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentColumns = `id, student_id, stream_id, academic_year_id, term_id, status, created_at, updated_at`

// ListForStudentPeriod returns every enrollment row a student has for the
// period, regardless of status. Callers pick the authoritative row via
// models.CurrentEnrollment.
func (r *EnrollmentRepository) ListForStudentPeriod(ctx context.Context, studentID, yearID, termID string) ([]models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE student_id = $1 AND academic_year_id = $2 AND term_id = $3`, enrollmentColumns)
	var rows []models.Enrollment
	if err := r.db.SelectContext(ctx, &rows, query, studentID, yearID, termID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return rows, nil
}

// ListForStudentStreamPeriod narrows ListForStudentPeriod to one stream.
func (r *EnrollmentRepository) ListForStudentStreamPeriod(ctx context.Context, studentID, streamID, yearID, termID string) ([]models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE student_id = $1 AND stream_id = $2 AND academic_year_id = $3 AND term_id = $4`, enrollmentColumns)
	var rows []models.Enrollment
	if err := r.db.SelectContext(ctx, &rows, query, studentID, streamID, yearID, termID); err != nil {
		return nil, fmt.Errorf("list student stream enrollments: %w", err)
	}
	return rows, nil
}

// ListActiveByStreamPeriod returns the ACTIVE enrollment rows for a stream
// and period joined with student identity. Superseding duplicates are still
// possible here; the resolver dedupes per student.
func (r *EnrollmentRepository) ListActiveByStreamPeriod(ctx context.Context, streamID, yearID, termID string) ([]models.RosterEntry, error) {
	const query = `SELECT e.id, e.student_id, e.stream_id, e.academic_year_id, e.term_id, e.status, e.created_at, e.updated_at,
        s.admission_no, s.first_name, s.last_name
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        WHERE e.stream_id = $1 AND e.academic_year_id = $2 AND e.term_id = $3 AND e.status = $4
        ORDER BY s.admission_no ASC`
	var entries []models.RosterEntry
	if err := r.db.SelectContext(ctx, &entries, query, streamID, yearID, termID, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("list stream roster: %w", err)
	}
	return entries, nil
}

// Create persists a new enrollment row.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = time.Now().UTC()
	}
	enrollment.UpdatedAt = enrollment.CreatedAt
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusActive
	}
	const query = `INSERT INTO enrollments (id, student_id, stream_id, academic_year_id, term_id, status, created_at, updated_at)
        VALUES (:id, :student_id, :stream_id, :academic_year_id, :term_id, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}
