package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
	"github.com/Lameck1/mwingi-school-erp-sub000/internal/repository"
)

func termScore(studentID, admissionNo, firstName, lastName, subjectID string, score float64) repository.TermScoreRow {
	return repository.TermScoreRow{
		StudentID:   studentID,
		AdmissionNo: admissionNo,
		FirstName:   firstName,
		LastName:    lastName,
		SubjectID:   subjectID,
		Score:       &score,
	}
}

func TestMeritListTieBreakByAdmissionNumber(t *testing.T) {
	results := &mockResultReader{
		exams: midTermExam(),
		subjectScores: map[string][]models.SubjectScore{"exam-1": {
			{StudentID: "stu-2", AdmissionNo: "ADM002", FirstName: "Mumbua", LastName: "Nzioka", SubjectID: "sub-math", Score: ptrScore(90)},
			{StudentID: "stu-1", AdmissionNo: "ADM001", FirstName: "Kioko", LastName: "Musyoka", SubjectID: "sub-math", Score: ptrScore(90)},
			{StudentID: "stu-3", AdmissionNo: "ADM003", FirstName: "Wanza", LastName: "Kilonzo", SubjectID: "sub-math", Score: ptrScore(85)},
		}},
	}
	enrollments := &mockRosterResolver{rosters: map[string][]models.RosterEntry{
		"form2-east": {rosterMember("stu-1", "ADM001"), rosterMember("stu-2", "ADM002"), rosterMember("stu-3", "ADM003")},
	}}
	grading := NewGradingService(eightFourFourScale(), zap.NewNop())
	svc := NewMeritService(results, mathSubject(), enrollments, grading, zap.NewNop())

	entries, err := svc.SubjectMeritList(context.Background(), "exam-1", "sub-math", "form2-east")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"ADM001", "ADM002", "ADM003"}, []string{entries[0].AdmissionNo, entries[1].AdmissionNo, entries[2].AdmissionNo})
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, 2, entries[1].Position)
	assert.Equal(t, 3, entries[2].Position)
	assert.Equal(t, "Kioko Musyoka", entries[0].StudentName)
	assert.Equal(t, "A", entries[0].Grade)
	assert.Equal(t, "A", entries[2].Grade)
	assert.InDelta(t, 85.0, entries[2].Percentage, 0.0001)
}

func TestMeritListExcludesUnenrolledAndUnscored(t *testing.T) {
	results := &mockResultReader{
		exams: midTermExam(),
		subjectScores: map[string][]models.SubjectScore{"exam-1": {
			{StudentID: "stu-1", AdmissionNo: "ADM001", SubjectID: "sub-math", Score: ptrScore(70)},
			{StudentID: "stu-gone", AdmissionNo: "ADM900", SubjectID: "sub-math", Score: ptrScore(99)},
			{StudentID: "stu-2", AdmissionNo: "ADM002", SubjectID: "sub-math", Score: nil},
		}},
	}
	enrollments := &mockRosterResolver{rosters: map[string][]models.RosterEntry{
		"form2-east": {rosterMember("stu-1", "ADM001"), rosterMember("stu-2", "ADM002")},
	}}
	grading := NewGradingService(eightFourFourScale(), zap.NewNop())
	svc := NewMeritService(results, mathSubject(), enrollments, grading, zap.NewNop())

	entries, err := svc.SubjectMeritList(context.Background(), "exam-1", "sub-math", "form2-east")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ADM001", entries[0].AdmissionNo)
}

func TestMostImprovedThresholdAndSharedSubjects(t *testing.T) {
	results := &mockResultReader{
		exams: midTermExam(),
		termScores: map[string][]repository.TermScoreRow{
			"year-2026/term-1": {
				termScore("stu-1", "ADM001", "Kioko", "Musyoka", "sub-math", 50),
				termScore("stu-1", "ADM001", "Kioko", "Musyoka", "sub-eng", 60),
				termScore("stu-2", "ADM002", "Mumbua", "Nzioka", "sub-math", 80),
				// stu-3 has no comparison-term data at all
			},
			"year-2026/term-2": {
				termScore("stu-1", "ADM001", "Kioko", "Musyoka", "sub-math", 70),
				termScore("stu-1", "ADM001", "Kioko", "Musyoka", "sub-eng", 70),
				// stu-1 sat an extra subject this term; it is not shared so it
				// must not dilute the comparison
				termScore("stu-1", "ADM001", "Kioko", "Musyoka", "sub-kis", 10),
				termScore("stu-2", "ADM002", "Mumbua", "Nzioka", "sub-math", 78),
				termScore("stu-3", "ADM003", "Wanza", "Kilonzo", "sub-math", 95),
			},
		},
	}
	enrollments := &mockRosterResolver{enrolled: map[string]bool{"stu-1": true, "stu-2": true, "stu-3": true}}
	grading := NewGradingService(eightFourFourScale(), zap.NewNop())
	svc := NewMeritService(results, mathSubject(), enrollments, grading, zap.NewNop())

	entries, err := svc.MostImproved(context.Background(), "year-2026", "term-1", "term-2", "", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "stu-1", entries[0].StudentID)
	assert.Equal(t, "Kioko Musyoka", entries[0].StudentName)
	assert.InDelta(t, 55.0, entries[0].ComparisonAvg, 0.0001)
	assert.InDelta(t, 70.0, entries[0].CurrentAvg, 0.0001)
	assert.InDelta(t, 15.0, entries[0].Improvement, 0.0001)
}

func TestMostImprovedExcludesUnenrolled(t *testing.T) {
	results := &mockResultReader{
		exams: midTermExam(),
		termScores: map[string][]repository.TermScoreRow{
			"year-2026/term-1": {termScore("stu-left", "ADM500", "Left", "School", "sub-math", 20)},
			"year-2026/term-2": {termScore("stu-left", "ADM500", "Left", "School", "sub-math", 90)},
		},
	}
	enrollments := &mockRosterResolver{enrolled: map[string]bool{}}
	grading := NewGradingService(eightFourFourScale(), zap.NewNop())
	svc := NewMeritService(results, mathSubject(), enrollments, grading, zap.NewNop())

	entries, err := svc.MostImproved(context.Background(), "year-2026", "term-1", "term-2", "", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMostImprovedStreamScoped(t *testing.T) {
	results := &mockResultReader{
		exams: midTermExam(),
		termScores: map[string][]repository.TermScoreRow{
			"year-2026/term-1": {
				termScore("stu-1", "ADM001", "Kioko", "Musyoka", "sub-math", 40),
				termScore("stu-out", "ADM800", "Other", "Stream", "sub-math", 40),
			},
			"year-2026/term-2": {
				termScore("stu-1", "ADM001", "Kioko", "Musyoka", "sub-math", 60),
				termScore("stu-out", "ADM800", "Other", "Stream", "sub-math", 60),
			},
		},
	}
	enrollments := &mockRosterResolver{rosters: map[string][]models.RosterEntry{
		"form2-east": {rosterMember("stu-1", "ADM001")},
	}}
	grading := NewGradingService(eightFourFourScale(), zap.NewNop())
	svc := NewMeritService(results, mathSubject(), enrollments, grading, zap.NewNop())

	entries, err := svc.MostImproved(context.Background(), "year-2026", "term-1", "term-2", "form2-east", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "stu-1", entries[0].StudentID)
}
