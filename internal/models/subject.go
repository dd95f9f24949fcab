package models

import "time"

// Curriculum identifies a grading-scheme family.
type Curriculum string

// Curricula currently configured for Kenyan schools.
const (
	CurriculumEightFourFour Curriculum = "8-4-4"
	CurriculumCBC           Curriculum = "CBC"
)

// Subject represents an academic subject scoped to one curriculum.
type Subject struct {
	ID         string     `db:"id" json:"id"`
	Code       string     `db:"code" json:"code"`
	Name       string     `db:"name" json:"name"`
	Curriculum Curriculum `db:"curriculum" json:"curriculum"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Exam is an assessment event scoped to one academic period, independent of
// any single stream.
type Exam struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	AcademicYearID string    `db:"academic_year_id" json:"academic_year_id"`
	TermID         string    `db:"term_id" json:"term_id"`
	MaxScore       float64   `db:"max_score" json:"max_score"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ExamResult carries one student's score in one subject for one exam. Score
// is nil until marks entry completes. A result row exists independently of
// enrollment; analytics must re-check enrollment before counting it.
type ExamResult struct {
	ID        string   `db:"id" json:"id"`
	ExamID    string   `db:"exam_id" json:"exam_id"`
	StudentID string   `db:"student_id" json:"student_id"`
	SubjectID string   `db:"subject_id" json:"subject_id"`
	Score     *float64 `db:"score" json:"score"`
}

// SubjectScore is an exam result joined with student identity, the shape
// merit lists and analyses consume.
type SubjectScore struct {
	StudentID   string   `db:"student_id" json:"student_id"`
	AdmissionNo string   `db:"admission_no" json:"admission_no"`
	FirstName   string   `db:"first_name" json:"first_name"`
	LastName    string   `db:"last_name" json:"last_name"`
	SubjectID   string   `db:"subject_id" json:"subject_id"`
	Score       *float64 `db:"score" json:"score"`
}
