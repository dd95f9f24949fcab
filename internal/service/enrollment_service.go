package service

import (
	"context"
	"database/sql"
	"sort"

	"go.uber.org/zap"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
	appErrors "github.com/Lameck1/mwingi-school-erp-sub000/pkg/errors"
)

type enrollmentStore interface {
	ListForStudentPeriod(ctx context.Context, studentID, yearID, termID string) ([]models.Enrollment, error)
	ListForStudentStreamPeriod(ctx context.Context, studentID, streamID, yearID, termID string) ([]models.Enrollment, error)
	ListActiveByStreamPeriod(ctx context.Context, streamID, yearID, termID string) ([]models.RosterEntry, error)
}

type periodReader interface {
	FindYear(ctx context.Context, id string) (*models.AcademicYear, error)
	FindTerm(ctx context.Context, id string) (*models.Term, error)
	FindStream(ctx context.Context, id string) (*models.Stream, error)
}

// EnrollmentService is the single authority on which enrollment row counts
// for a student in a period. Every other component resolves enrollment
// through it; none re-derives "current stream" on its own.
type EnrollmentService struct {
	repo    enrollmentStore
	periods periodReader
	logger  *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentStore, periods periodReader, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, periods: periods, logger: logger}
}

// ValidatePeriod rejects nonexistent year/term identifiers before any
// aggregation runs.
func (s *EnrollmentService) ValidatePeriod(ctx context.Context, yearID, termID string) error {
	if _, err := s.periods.FindYear(ctx, yearID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrInvalidPeriod, "unknown academic year")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic year")
	}
	if _, err := s.periods.FindTerm(ctx, termID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrInvalidPeriod, "unknown term")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return nil
}

// Resolve returns the authoritative enrollment row for (student, year, term)
// or nil when the student is not enrolled. Absence is a valid, reportable
// state, never an error.
func (s *EnrollmentService) Resolve(ctx context.Context, studentID, yearID, termID string) (*models.Enrollment, error) {
	if err := s.ValidatePeriod(ctx, yearID, termID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListForStudentPeriod(ctx, studentID, yearID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	return models.CurrentEnrollment(rows), nil
}

// ResolveInStream narrows Resolve to one stream.
func (s *EnrollmentService) ResolveInStream(ctx context.Context, studentID, streamID, yearID, termID string) (*models.Enrollment, error) {
	if err := s.ValidatePeriod(ctx, yearID, termID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListForStudentStreamPeriod(ctx, studentID, streamID, yearID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	return models.CurrentEnrollment(rows), nil
}

// Roster returns the students actively enrolled in a stream for a period,
// derived from the enrollment table alone. A student with superseding ACTIVE
// rows (a correction anomaly) appears once, represented by the most recent
// row. An empty roster is a valid result.
func (s *EnrollmentService) Roster(ctx context.Context, streamID, yearID, termID string) ([]models.RosterEntry, error) {
	if err := s.ValidatePeriod(ctx, yearID, termID); err != nil {
		return nil, err
	}
	if _, err := s.periods.FindStream(ctx, streamID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stream not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stream")
	}
	entries, err := s.repo.ListActiveByStreamPeriod(ctx, streamID, yearID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return dedupeRoster(entries), nil
}

// dedupeRoster applies the shared selection rule per student so superseding
// rows never double-count a roster member.
func dedupeRoster(entries []models.RosterEntry) []models.RosterEntry {
	byStudent := make(map[string][]models.Enrollment, len(entries))
	identity := make(map[string]models.RosterEntry, len(entries))
	for _, e := range entries {
		byStudent[e.StudentID] = append(byStudent[e.StudentID], e.Enrollment)
		identity[e.StudentID] = e
	}

	roster := make([]models.RosterEntry, 0, len(byStudent))
	for studentID, rows := range byStudent {
		current := models.CurrentEnrollment(rows)
		if current == nil {
			continue
		}
		entry := identity[studentID]
		entry.Enrollment = *current
		roster = append(roster, entry)
	}
	sort.Slice(roster, func(i, j int) bool {
		return roster[i].AdmissionNo < roster[j].AdmissionNo
	})
	return roster
}
