package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
	"github.com/Lameck1/mwingi-school-erp-sub000/internal/repository"
	appErrors "github.com/Lameck1/mwingi-school-erp-sub000/pkg/errors"
)

type examResultReader interface {
	FindExam(ctx context.Context, examID string) (*models.Exam, error)
	ListSubjectScores(ctx context.Context, examID, subjectID string) ([]models.SubjectScore, error)
	ListStudentResults(ctx context.Context, studentID, examID string) ([]repository.StudentResultRow, error)
	ListSubjectIDs(ctx context.Context, examID string) ([]string, error)
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type enrollmentResolver interface {
	Roster(ctx context.Context, streamID, yearID, termID string) ([]models.RosterEntry, error)
	Resolve(ctx context.Context, studentID, yearID, termID string) (*models.Enrollment, error)
}

type gradeResolver interface {
	GradeFor(ctx context.Context, curriculum models.Curriculum, score float64) (*models.GradeBand, error)
}

// AnalyticsService computes descriptive exam statistics over currently
// enrolled students. The enrollment join is the defining correctness
// property: a result row whose student is no longer actively enrolled in
// the stream for the exam's period is excluded, not averaged in.
type AnalyticsService struct {
	results     examResultReader
	subjects    subjectReader
	students    studentReader
	enrollments enrollmentResolver
	grading     gradeResolver
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(results examResultReader, subjects subjectReader, students studentReader, enrollments enrollmentResolver, grading gradeResolver, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		results:     results,
		subjects:    subjects,
		students:    students,
		enrollments: enrollments,
		grading:     grading,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
	}
}

// SubjectAnalysis reports count and mean over the subject's scores for the
// exam, restricted to the stream's roster for the exam's period. The boolean
// indicates whether data originated from cache.
func (s *AnalyticsService) SubjectAnalysis(ctx context.Context, examID, subjectID, streamID string) (*models.SubjectAnalysis, bool, error) {
	cacheKey := makeAnalyticsCacheKey("subject", examID, subjectID, streamID)
	var cached models.SubjectAnalysis
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	analysis, err := s.computeSubjectAnalysis(ctx, examID, subjectID, streamID)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, cacheKey, analysis, 0); err != nil {
		s.logger.Warn("cache subject analysis", zap.Error(err))
	}
	return analysis, false, nil
}

func (s *AnalyticsService) computeSubjectAnalysis(ctx context.Context, examID, subjectID, streamID string) (*models.SubjectAnalysis, error) {
	exam, err := s.findExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	start := time.Now()
	roster, err := s.enrollments.Roster(ctx, streamID, exam.AcademicYearID, exam.TermID)
	if err != nil {
		return nil, err
	}
	scores, err := s.results.ListSubjectScores(ctx, examID, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject scores")
	}
	s.metrics.ObserveDBQuery("analytics_subject", time.Since(start))

	enrolled := make(map[string]struct{}, len(roster))
	for _, entry := range roster {
		enrolled[entry.StudentID] = struct{}{}
	}

	analysis := &models.SubjectAnalysis{
		ExamID:      examID,
		SubjectID:   subjectID,
		SubjectName: subject.Name,
		StreamID:    streamID,
	}
	var sum float64
	for _, score := range scores {
		if _, ok := enrolled[score.StudentID]; !ok {
			continue
		}
		if score.Score == nil {
			continue
		}
		analysis.StudentCount++
		sum += *score.Score
	}
	if analysis.StudentCount > 0 {
		analysis.MeanScore = sum / float64(analysis.StudentCount)
		analysis.HasData = true
	}
	return analysis, nil
}

// StudentPerformance assembles one student's per-subject results for an
// exam with resolved grades and overall average. The display name is always
// built from the stored first/last name fields.
func (s *AnalyticsService) StudentPerformance(ctx context.Context, studentID, examID string) (*models.StudentPerformance, error) {
	if _, err := s.findExam(ctx, examID); err != nil {
		return nil, err
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	rows, err := s.results.ListStudentResults(ctx, studentID, examID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student results")
	}

	performance := &models.StudentPerformance{
		StudentID:   student.ID,
		StudentName: student.FullName(),
		AdmissionNo: student.AdmissionNo,
		ExamID:      examID,
		Subjects:    make([]models.StudentSubjectResult, 0, len(rows)),
	}
	var sum float64
	var graded int
	for _, row := range rows {
		result := models.StudentSubjectResult{
			SubjectID:   row.SubjectID,
			SubjectName: row.SubjectName,
			Score:       row.Score,
		}
		if row.Score != nil {
			band, err := s.grading.GradeFor(ctx, row.Curriculum, *row.Score)
			if err != nil {
				return nil, err
			}
			result.Grade = band.Grade
			result.Remarks = band.Remarks
			sum += *row.Score
			graded++
		}
		performance.Subjects = append(performance.Subjects, result)
	}
	if graded > 0 {
		performance.Average = sum / float64(graded)
		performance.HasData = true
	}
	return performance, nil
}

// AnalyzeAllSubjects runs SubjectAnalysis for every subject with at least
// one enrolled, scored student in the exam/stream combination.
func (s *AnalyticsService) AnalyzeAllSubjects(ctx context.Context, examID, streamID string) ([]models.SubjectAnalysis, bool, error) {
	cacheKey := makeAnalyticsCacheKey("all-subjects", examID, streamID)
	var cached []models.SubjectAnalysis
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	subjectIDs, err := s.results.ListSubjectIDs(ctx, examID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exam subjects")
	}

	analyses := make([]models.SubjectAnalysis, 0, len(subjectIDs))
	for _, subjectID := range subjectIDs {
		analysis, err := s.computeSubjectAnalysis(ctx, examID, subjectID, streamID)
		if err != nil {
			return nil, false, err
		}
		if analysis.StudentCount == 0 {
			continue
		}
		analyses = append(analyses, *analysis)
	}

	if err := s.cache.Set(ctx, cacheKey, analyses, 0); err != nil {
		s.logger.Warn("cache subject analyses", zap.Error(err))
	}
	return analyses, false, nil
}

// SystemMetrics returns system instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.SystemMetrics {
	return s.metrics.Snapshot()
}

func (s *AnalyticsService) findExam(ctx context.Context, examID string) (*models.Exam, error) {
	exam, err := s.results.FindExam(ctx, examID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	return exam, nil
}

func makeAnalyticsCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("analytics")
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}
