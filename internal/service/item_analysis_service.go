package service

import (
	"context"
	"database/sql"
	"sort"

	"go.uber.org/zap"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
	appErrors "github.com/Lameck1/mwingi-school-erp-sub000/pkg/errors"
)

// minDiscriminationSample is the smallest cohort for which the classic 27%
// split yields non-empty groups worth reporting.
const minDiscriminationSample = 8

// discriminationSplit is the classic item-analysis top/bottom fraction.
const discriminationSplit = 27

type passThresholdResolver interface {
	PassThreshold(ctx context.Context, curriculum models.Curriculum) (float64, error)
}

// ItemAnalysisService computes classical test-theory metrics for a subject
// within a stream: difficulty and discrimination indices plus pass rate,
// restricted to the enrolled cohort the same way the statistics aggregator
// is.
type ItemAnalysisService struct {
	results     examResultReader
	subjects    subjectReader
	enrollments enrollmentResolver
	grading     passThresholdResolver
	logger      *zap.Logger
}

// NewItemAnalysisService constructs ItemAnalysisService.
func NewItemAnalysisService(results examResultReader, subjects subjectReader, enrollments enrollmentResolver, grading passThresholdResolver, logger *zap.Logger) *ItemAnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemAnalysisService{results: results, subjects: subjects, enrollments: enrollments, grading: grading, logger: logger}
}

// SubjectDifficulty reports mean, pass rate, difficulty and discrimination
// for (exam, subject, stream). Scores are on the 0-100 scale; difficulty is
// 100 minus the mean, so a harder subject scores higher. Below the minimum
// cohort the discrimination index is a nil sentinel, never a division fault.
func (s *ItemAnalysisService) SubjectDifficulty(ctx context.Context, examID, subjectID, streamID string) (*models.SubjectDifficulty, error) {
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
	graded := make([]float64, 0, len(scores))
	for _, score := range scores {
		if _, ok := enrolled[score.StudentID]; !ok {
			continue
		}
		if score.Score == nil {
			continue
		}
		graded = append(graded, *score.Score)
	}

	analysis := &models.SubjectDifficulty{
		ExamID:       examID,
		SubjectID:    subjectID,
		StreamID:     streamID,
		StudentCount: len(graded),
	}
	if len(graded) == 0 {
		analysis.InsufficientSample = true
		analysis.DifficultyIndex = 100
		return analysis, nil
	}

	var sum float64
	for _, score := range graded {
		sum += score
	}
	analysis.MeanScore = sum / float64(len(graded))
	analysis.DifficultyIndex = 100 - analysis.MeanScore

	threshold, err := s.grading.PassThreshold(ctx, subject.Curriculum)
	if err != nil {
		return nil, err
	}
	var passed int
	for _, score := range graded {
		if score >= threshold {
			passed++
		}
	}
	analysis.PassRate = float64(passed) / float64(len(graded))

	analysis.Discrimination, analysis.InsufficientSample = discriminationIndex(graded, maxScoreOrDefault(exam.MaxScore))
	return analysis, nil
}

// discriminationIndex splits scorers into top and bottom 27% groups and
// reports the normalised mean gap. Cohorts below minDiscriminationSample
// degenerate to zero-sized groups, so they return the sentinel instead.
func discriminationIndex(scores []float64, maxScore float64) (*float64, bool) {
	n := len(scores)
	if n < minDiscriminationSample {
		return nil, true
	}
	sorted := make([]float64, n)
	copy(sorted, scores)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	k := n * discriminationSplit / 100
	if k < 1 {
		return nil, true
	}
	var topSum, bottomSum float64
	for i := 0; i < k; i++ {
		topSum += sorted[i]
		bottomSum += sorted[n-1-i]
	}
	index := (topSum - bottomSum) / float64(k) / maxScore
	return &index, false
}

func maxScoreOrDefault(maxScore float64) float64 {
	if maxScore <= 0 {
		return 100
	}
	return maxScore
}
