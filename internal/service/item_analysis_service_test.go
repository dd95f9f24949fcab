package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
)

func itemAnalysisFixture(scores []float64) (*mockResultReader, *mockRosterResolver) {
	subjectScores := make([]models.SubjectScore, 0, len(scores))
	roster := make([]models.RosterEntry, 0, len(scores))
	for i, score := range scores {
		studentID := string(rune('a' + i))
		s := score
		subjectScores = append(subjectScores, models.SubjectScore{StudentID: studentID, SubjectID: "sub-math", Score: &s})
		roster = append(roster, rosterMember(studentID, "ADM00"+studentID))
	}
	results := &mockResultReader{
		exams:         midTermExam(),
		subjectScores: map[string][]models.SubjectScore{"exam-1": subjectScores},
	}
	enrollments := &mockRosterResolver{rosters: map[string][]models.RosterEntry{"form2-east": roster}}
	return results, enrollments
}

func TestItemAnalysisDiscrimination(t *testing.T) {
	scores := []float64{100, 90, 80, 70, 60, 50, 40, 30, 20, 10}
	results, enrollments := itemAnalysisFixture(scores)
	grading := NewGradingService(eightFourFourScale(), zap.NewNop())
	svc := NewItemAnalysisService(results, mathSubject(), enrollments, grading, zap.NewNop())

	analysis, err := svc.SubjectDifficulty(context.Background(), "exam-1", "sub-math", "form2-east")
	require.NoError(t, err)
	assert.Equal(t, 10, analysis.StudentCount)
	assert.InDelta(t, 55.0, analysis.MeanScore, 0.0001)
	assert.InDelta(t, 45.0, analysis.DifficultyIndex, 0.0001)
	assert.InDelta(t, 0.5, analysis.PassRate, 0.0001)
	require.NotNil(t, analysis.Discrimination)
	// top 27% of 10 is 2 scorers: (95 - 15) / 100
	assert.InDelta(t, 0.8, *analysis.Discrimination, 0.0001)
	assert.False(t, analysis.InsufficientSample)
}

func TestItemAnalysisInsufficientSample(t *testing.T) {
	scores := []float64{90, 70, 50, 30, 10}
	results, enrollments := itemAnalysisFixture(scores)
	grading := NewGradingService(eightFourFourScale(), zap.NewNop())
	svc := NewItemAnalysisService(results, mathSubject(), enrollments, grading, zap.NewNop())

	analysis, err := svc.SubjectDifficulty(context.Background(), "exam-1", "sub-math", "form2-east")
	require.NoError(t, err)
	assert.Equal(t, 5, analysis.StudentCount)
	assert.Nil(t, analysis.Discrimination)
	assert.True(t, analysis.InsufficientSample)
	assert.InDelta(t, 50.0, analysis.MeanScore, 0.0001)
	assert.InDelta(t, 50.0, analysis.DifficultyIndex, 0.0001)
}

func TestItemAnalysisNoGradedScores(t *testing.T) {
	results := &mockResultReader{
		exams: midTermExam(),
		subjectScores: map[string][]models.SubjectScore{"exam-1": {
			{StudentID: "stu-1", SubjectID: "sub-math", Score: nil},
		}},
	}
	enrollments := &mockRosterResolver{rosters: map[string][]models.RosterEntry{
		"form2-east": {rosterMember("stu-1", "ADM001")},
	}}
	grading := NewGradingService(eightFourFourScale(), zap.NewNop())
	svc := NewItemAnalysisService(results, mathSubject(), enrollments, grading, zap.NewNop())

	analysis, err := svc.SubjectDifficulty(context.Background(), "exam-1", "sub-math", "form2-east")
	require.NoError(t, err)
	assert.Equal(t, 0, analysis.StudentCount)
	assert.True(t, analysis.InsufficientSample)
	assert.InDelta(t, 100.0, analysis.DifficultyIndex, 0.0001)
}

func TestItemAnalysisExcludesUnenrolled(t *testing.T) {
	results := &mockResultReader{
		exams: midTermExam(),
		subjectScores: map[string][]models.SubjectScore{"exam-1": {
			{StudentID: "stu-1", SubjectID: "sub-math", Score: ptrScore(40)},
			{StudentID: "stu-gone", SubjectID: "sub-math", Score: ptrScore(100)},
		}},
	}
	enrollments := &mockRosterResolver{rosters: map[string][]models.RosterEntry{
		"form2-east": {rosterMember("stu-1", "ADM001")},
	}}
	grading := NewGradingService(eightFourFourScale(), zap.NewNop())
	svc := NewItemAnalysisService(results, mathSubject(), enrollments, grading, zap.NewNop())

	analysis, err := svc.SubjectDifficulty(context.Background(), "exam-1", "sub-math", "form2-east")
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.StudentCount)
	assert.InDelta(t, 40.0, analysis.MeanScore, 0.0001)
}
