package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
)

// ExamResultRepository reads exam result rows for analytics. This core owns
// no marks-entry or deletion path; results are read-only here.
type ExamResultRepository struct {
	db *sqlx.DB
}

// NewExamResultRepository constructs the repository.
func NewExamResultRepository(db *sqlx.DB) *ExamResultRepository {
	return &ExamResultRepository{db: db}
}

// FindExam returns the exam with its period scope.
func (r *ExamResultRepository) FindExam(ctx context.Context, examID string) (*models.Exam, error) {
	const query = `SELECT id, name, academic_year_id, term_id, max_score, created_at FROM exams WHERE id = $1`
	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, query, examID); err != nil {
		return nil, err
	}
	return &exam, nil
}

// ListSubjectScores returns every result row for (exam, subject) joined with
// student identity. Rows may reference students who are no longer actively
// enrolled; enrollment filtering is the caller's job.
func (r *ExamResultRepository) ListSubjectScores(ctx context.Context, examID, subjectID string) ([]models.SubjectScore, error) {
	const query = `SELECT er.student_id, s.admission_no, s.first_name, s.last_name, er.subject_id, er.score
        FROM exam_results er
        JOIN students s ON s.id = er.student_id
        WHERE er.exam_id = $1 AND er.subject_id = $2
        ORDER BY s.admission_no ASC`
	var scores []models.SubjectScore
	if err := r.db.SelectContext(ctx, &scores, query, examID, subjectID); err != nil {
		return nil, fmt.Errorf("list subject scores: %w", err)
	}
	return scores, nil
}

// StudentResultRow is one subject result for a student's report.
type StudentResultRow struct {
	SubjectID   string            `db:"subject_id"`
	SubjectName string            `db:"subject_name"`
	Curriculum  models.Curriculum `db:"curriculum"`
	Score       *float64          `db:"score"`
}

// ListStudentResults returns a student's per-subject results for one exam.
func (r *ExamResultRepository) ListStudentResults(ctx context.Context, studentID, examID string) ([]StudentResultRow, error) {
	const query = `SELECT er.subject_id, sub.name AS subject_name, sub.curriculum, er.score
        FROM exam_results er
        JOIN subjects sub ON sub.id = er.subject_id
        WHERE er.student_id = $1 AND er.exam_id = $2
        ORDER BY sub.name ASC`
	var rows []StudentResultRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID, examID); err != nil {
		return nil, fmt.Errorf("list student results: %w", err)
	}
	return rows, nil
}

// ListSubjectIDs returns the distinct subjects with at least one result row
// in the exam.
func (r *ExamResultRepository) ListSubjectIDs(ctx context.Context, examID string) ([]string, error) {
	const query = `SELECT DISTINCT subject_id FROM exam_results WHERE exam_id = $1 ORDER BY subject_id ASC`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, examID); err != nil {
		return nil, fmt.Errorf("list exam subjects: %w", err)
	}
	return ids, nil
}

// TermScoreRow is one result row scoped to a term, used by the improvement
// comparison.
type TermScoreRow struct {
	StudentID   string   `db:"student_id"`
	AdmissionNo string   `db:"admission_no"`
	FirstName   string   `db:"first_name"`
	LastName    string   `db:"last_name"`
	SubjectID   string   `db:"subject_id"`
	Score       *float64 `db:"score"`
}

// ListTermScores returns all result rows for exams held in (year, term),
// joined with student identity.
func (r *ExamResultRepository) ListTermScores(ctx context.Context, yearID, termID string) ([]TermScoreRow, error) {
	const query = `SELECT er.student_id, s.admission_no, s.first_name, s.last_name, er.subject_id, er.score
        FROM exam_results er
        JOIN exams ex ON ex.id = er.exam_id
        JOIN students s ON s.id = er.student_id
        WHERE ex.academic_year_id = $1 AND ex.term_id = $2`
	var rows []TermScoreRow
	if err := r.db.SelectContext(ctx, &rows, query, yearID, termID); err != nil {
		return nil, fmt.Errorf("list term scores: %w", err)
	}
	return rows, nil
}
