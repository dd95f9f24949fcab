package service

import (
	"context"
	"database/sql"
	"sort"

	"go.uber.org/zap"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
	"github.com/Lameck1/mwingi-school-erp-sub000/internal/repository"
	appErrors "github.com/Lameck1/mwingi-school-erp-sub000/pkg/errors"
)

type termScoreReader interface {
	examResultReader
	ListTermScores(ctx context.Context, yearID, termID string) ([]repository.TermScoreRow, error)
}

type improvementResolver interface {
	enrollmentResolver
	ValidatePeriod(ctx context.Context, yearID, termID string) error
}

// MeritService ranks enrolled students within a subject and compares
// term-over-term improvement. Ordering is deterministic: score descending,
// ties broken by admission number ascending, so a reprinted list is always
// identical.
type MeritService struct {
	results     termScoreReader
	subjects    subjectReader
	enrollments improvementResolver
	grading     gradeResolver
	logger      *zap.Logger
}

// NewMeritService constructs MeritService.
func NewMeritService(results termScoreReader, subjects subjectReader, enrollments improvementResolver, grading gradeResolver, logger *zap.Logger) *MeritService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeritService{results: results, subjects: subjects, enrollments: enrollments, grading: grading, logger: logger}
}

// SubjectMeritList ranks the stream's enrolled students by score in one
// subject for one exam.
func (s *MeritService) SubjectMeritList(ctx context.Context, examID, subjectID, streamID string) ([]models.MeritEntry, error) {
	exam, err := s.results.FindExam(ctx, examID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	roster, err := s.enrollments.Roster(ctx, streamID, exam.AcademicYearID, exam.TermID)
	if err != nil {
		return nil, err
	}
	scores, err := s.results.ListSubjectScores(ctx, examID, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject scores")
	}

	enrolled := make(map[string]struct{}, len(roster))
	for _, entry := range roster {
		enrolled[entry.StudentID] = struct{}{}
	}

	maxScore := maxScoreOrDefault(exam.MaxScore)
	entries := make([]models.MeritEntry, 0, len(scores))
	for _, score := range scores {
		if _, ok := enrolled[score.StudentID]; !ok {
			continue
		}
		if score.Score == nil {
			continue
		}
		band, err := s.grading.GradeFor(ctx, subject.Curriculum, *score.Score)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.MeritEntry{
			StudentID:   score.StudentID,
			StudentName: models.Student{FirstName: score.FirstName, LastName: score.LastName}.FullName(),
			AdmissionNo: score.AdmissionNo,
			Score:       *score.Score,
			Percentage:  *score.Score / maxScore * 100,
			Grade:       band.Grade,
			Remarks:     band.Remarks,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].AdmissionNo < entries[j].AdmissionNo
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries, nil
}

// studentTermScores accumulates one student's subject scores within a term.
type studentTermScores struct {
	admissionNo string
	firstName   string
	lastName    string
	bySubject   map[string][]float64
}

// MostImproved compares each student's average score between two terms of
// the same year, over the subjects present in both, and reports those whose
// improvement meets the threshold. Students absent in either term are
// excluded; no data is never treated as a zero score. With a non-empty
// streamID students must be actively enrolled in that stream for both
// terms; otherwise any active enrollment for the term counts.
func (s *MeritService) MostImproved(ctx context.Context, yearID, comparisonTermID, currentTermID, streamID string, threshold float64) ([]models.ImprovementEntry, error) {
	if err := s.enrollments.ValidatePeriod(ctx, yearID, comparisonTermID); err != nil {
		return nil, err
	}
	if err := s.enrollments.ValidatePeriod(ctx, yearID, currentTermID); err != nil {
		return nil, err
	}

	comparison, err := s.collectTermScores(ctx, yearID, comparisonTermID, streamID)
	if err != nil {
		return nil, err
	}
	current, err := s.collectTermScores(ctx, yearID, currentTermID, streamID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ImprovementEntry, 0)
	for studentID, cur := range current {
		comp, ok := comparison[studentID]
		if !ok {
			continue
		}
		shared := make([]string, 0, len(cur.bySubject))
		for subjectID := range cur.bySubject {
			if _, ok := comp.bySubject[subjectID]; ok {
				shared = append(shared, subjectID)
			}
		}
		if len(shared) == 0 {
			continue
		}
		curAvg := averageOverSubjects(cur.bySubject, shared)
		compAvg := averageOverSubjects(comp.bySubject, shared)
		improvement := curAvg - compAvg
		if improvement < threshold {
			continue
		}
		entries = append(entries, models.ImprovementEntry{
			StudentID:     studentID,
			StudentName:   models.Student{FirstName: cur.firstName, LastName: cur.lastName}.FullName(),
			AdmissionNo:   cur.admissionNo,
			ComparisonAvg: compAvg,
			CurrentAvg:    curAvg,
			Improvement:   improvement,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Improvement != entries[j].Improvement {
			return entries[i].Improvement > entries[j].Improvement
		}
		return entries[i].AdmissionNo < entries[j].AdmissionNo
	})
	return entries, nil
}

// collectTermScores gathers enrollment-filtered scores per student for one
// term, keyed by student ID.
func (s *MeritService) collectTermScores(ctx context.Context, yearID, termID, streamID string) (map[string]*studentTermScores, error) {
	rows, err := s.results.ListTermScores(ctx, yearID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term scores")
	}

	var enrolled map[string]struct{}
	if streamID != "" {
		roster, err := s.enrollments.Roster(ctx, streamID, yearID, termID)
		if err != nil {
			return nil, err
		}
		enrolled = make(map[string]struct{}, len(roster))
		for _, entry := range roster {
			enrolled[entry.StudentID] = struct{}{}
		}
	}

	// Cache unscoped resolutions so each student is resolved once per term.
	resolved := make(map[string]bool)
	collected := make(map[string]*studentTermScores)
	for _, row := range rows {
		if row.Score == nil {
			continue
		}
		if enrolled != nil {
			if _, ok := enrolled[row.StudentID]; !ok {
				continue
			}
		} else {
			ok, seen := resolved[row.StudentID]
			if !seen {
				enrollment, err := s.enrollments.Resolve(ctx, row.StudentID, yearID, termID)
				if err != nil {
					return nil, err
				}
				ok = enrollment != nil
				resolved[row.StudentID] = ok
			}
			if !ok {
				continue
			}
		}
		entry, ok := collected[row.StudentID]
		if !ok {
			entry = &studentTermScores{
				admissionNo: row.AdmissionNo,
				firstName:   row.FirstName,
				lastName:    row.LastName,
				bySubject:   make(map[string][]float64),
			}
			collected[row.StudentID] = entry
		}
		entry.bySubject[row.SubjectID] = append(entry.bySubject[row.SubjectID], *row.Score)
	}
	return collected, nil
}

// averageOverSubjects averages a student's per-subject means across the
// shared subject set.
func averageOverSubjects(bySubject map[string][]float64, subjectIDs []string) float64 {
	var sum float64
	for _, subjectID := range subjectIDs {
		scores := bySubject[subjectID]
		var subjectSum float64
		for _, score := range scores {
			subjectSum += score
		}
		sum += subjectSum / float64(len(scores))
	}
	return sum / float64(len(subjectIDs))
}
