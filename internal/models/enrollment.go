package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment row.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive      EnrollmentStatus = "ACTIVE"
	EnrollmentStatusInactive    EnrollmentStatus = "INACTIVE"
	EnrollmentStatusTransferred EnrollmentStatus = "TRANSFERRED"
)

// Enrollment binds a student to a stream for one academic year and term.
// Rows accumulate over a student's school life and are never physically
// deleted; corrections and promotions insert superseding rows. A student's
// current stream is therefore always derived, never stored as a scalar.
type Enrollment struct {
	ID             string           `db:"id" json:"id"`
	StudentID      string           `db:"student_id" json:"student_id"`
	StreamID       string           `db:"stream_id" json:"stream_id"`
	AcademicYearID string           `db:"academic_year_id" json:"academic_year_id"`
	TermID         string           `db:"term_id" json:"term_id"`
	Status         EnrollmentStatus `db:"status" json:"status"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// CurrentEnrollment applies the one authoritative selection rule for a
// student's enrollment within a period: the most recently created ACTIVE row
// wins; with no ACTIVE row the student is not enrolled and nil is returned.
// Every consumer, including the promotion write path, must go through this
// function rather than re-deriving "latest row" inline.
func CurrentEnrollment(rows []Enrollment) *Enrollment {
	var current *Enrollment
	for i := range rows {
		if rows[i].Status != EnrollmentStatusActive {
			continue
		}
		if current == nil || rows[i].CreatedAt.After(current.CreatedAt) {
			current = &rows[i]
		}
	}
	return current
}

// RosterEntry pairs a student with the enrollment row that places them in a
// stream for the requested period.
type RosterEntry struct {
	Enrollment
	AdmissionNo string `db:"admission_no" json:"admission_no"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
}

// StudentName returns the roster member's display name.
func (r RosterEntry) StudentName() string {
	return Student{FirstName: r.FirstName, LastName: r.LastName}.FullName()
}
