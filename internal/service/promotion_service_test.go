package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
	"github.com/Lameck1/mwingi-school-erp-sub000/internal/repository"
	appErrors "github.com/Lameck1/mwingi-school-erp-sub000/pkg/errors"
)

// mockPromotionStore mimics the repository state machine: the first
// promotion of a student consumes the source enrollment, so a rerun fails
// with the sentinel.
type mockPromotionStore struct {
	promoted map[string]bool
	failWith map[string]error
	calls    []repository.PromoteStudentParams
}

func (m *mockPromotionStore) PromoteStudent(ctx context.Context, params repository.PromoteStudentParams) (*models.Enrollment, error) {
	m.calls = append(m.calls, params)
	if err, ok := m.failWith[params.StudentID]; ok {
		return nil, err
	}
	if m.promoted == nil {
		m.promoted = make(map[string]bool)
	}
	if m.promoted[params.StudentID] {
		return nil, repository.ErrNotEnrolledInSource
	}
	m.promoted[params.StudentID] = true
	return &models.Enrollment{
		ID:             "en-new-" + params.StudentID,
		StudentID:      params.StudentID,
		StreamID:       params.ToStreamID,
		AcademicYearID: params.ToYearID,
		TermID:         params.ToTermID,
		Status:         models.EnrollmentStatusActive,
	}, nil
}

type mockStudentBatchReader struct {
	students map[string]models.Student
}

func (m *mockStudentBatchReader) ListByIDs(ctx context.Context, ids []string) (map[string]models.Student, error) {
	found := make(map[string]models.Student, len(ids))
	for _, id := range ids {
		if student, ok := m.students[id]; ok {
			found[id] = student
		}
	}
	return found, nil
}

type mockAuditWriter struct {
	logs []models.AuditLog
}

func (m *mockAuditWriter) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func promotionPeriods() *mockPeriodReader {
	return &mockPeriodReader{
		years:   map[string]bool{"year-2026": true, "year-2027": true},
		terms:   map[string]bool{"term-1": true},
		streams: map[string]bool{"form2-east": true, "form3-east": true},
	}
}

func promotionRoster() *mockStudentBatchReader {
	return &mockStudentBatchReader{students: map[string]models.Student{
		"stu-1": {ID: "stu-1", AdmissionNo: "ADM001", FirstName: "Kioko", LastName: "Musyoka"},
		"stu-2": {ID: "stu-2", AdmissionNo: "ADM002", FirstName: "Mumbua", LastName: "Nzioka"},
		"stu-3": {ID: "stu-3", AdmissionNo: "ADM003", FirstName: "Wanza", LastName: "Kilonzo"},
	}}
}

func formTwoToThree(studentIDs ...string) PromoteBatchRequest {
	return PromoteBatchRequest{
		StudentIDs:   studentIDs,
		FromStreamID: "form2-east",
		FromYearID:   "year-2026",
		ToStreamID:   "form3-east",
		ToYearID:     "year-2027",
		ToTermID:     "term-1",
	}
}

func TestPromoteBatchPartialFailureIsolation(t *testing.T) {
	store := &mockPromotionStore{failWith: map[string]error{"stu-2": repository.ErrNotEnrolledInSource}}
	audit := &mockAuditWriter{}
	svc := NewPromotionService(store, promotionRoster(), promotionPeriods(), audit, nil, zap.NewNop(), 0)

	result, err := svc.PromoteBatch(context.Background(), formTwoToThree("stu-1", "stu-2", "stu-3"), "actor-1")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Promoted)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.FailureDetails, 1)
	assert.Equal(t, "stu-2", result.FailureDetails[0].StudentID)
	assert.Equal(t, "Mumbua Nzioka", result.FailureDetails[0].StudentName)
	assert.Equal(t, "not currently enrolled in source class", result.FailureDetails[0].Reason)
	assert.Len(t, store.calls, 3)
	assert.Len(t, audit.logs, 2)
}

func TestPromoteBatchRerunFailsAlreadyPromoted(t *testing.T) {
	store := &mockPromotionStore{}
	svc := NewPromotionService(store, promotionRoster(), promotionPeriods(), nil, nil, zap.NewNop(), 0)

	first, err := svc.PromoteBatch(context.Background(), formTwoToThree("stu-1", "stu-2"), "actor-1")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Promoted)
	assert.Equal(t, 0, first.Failed)

	second, err := svc.PromoteBatch(context.Background(), formTwoToThree("stu-1", "stu-2"), "actor-1")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Promoted)
	assert.Equal(t, 2, second.Failed)
	for _, detail := range second.FailureDetails {
		assert.Equal(t, "not currently enrolled in source class", detail.Reason)
	}
}

func TestPromoteBatchUnknownStudent(t *testing.T) {
	store := &mockPromotionStore{}
	svc := NewPromotionService(store, promotionRoster(), promotionPeriods(), nil, nil, zap.NewNop(), 0)

	result, err := svc.PromoteBatch(context.Background(), formTwoToThree("stu-1", "stu-missing"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Promoted)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.FailureDetails, 1)
	assert.Equal(t, "student not found", result.FailureDetails[0].Reason)
	// the unknown student never reaches the repository
	assert.Len(t, store.calls, 1)
}

func TestPromoteBatchUnknownDescriptor(t *testing.T) {
	svc := NewPromotionService(&mockPromotionStore{}, promotionRoster(), promotionPeriods(), nil, nil, zap.NewNop(), 0)

	req := formTwoToThree("stu-1")
	req.ToStreamID = "form9-west"
	_, err := svc.PromoteBatch(context.Background(), req, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidPeriod.Code, appErrors.FromError(err).Code)
}

func TestPromoteBatchValidation(t *testing.T) {
	svc := NewPromotionService(&mockPromotionStore{}, promotionRoster(), promotionPeriods(), nil, nil, zap.NewNop(), 0)

	_, err := svc.PromoteBatch(context.Background(), PromoteBatchRequest{}, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPromoteBatchSizeLimit(t *testing.T) {
	svc := NewPromotionService(&mockPromotionStore{}, promotionRoster(), promotionPeriods(), nil, nil, zap.NewNop(), 2)

	_, err := svc.PromoteBatch(context.Background(), formTwoToThree("stu-1", "stu-2", "stu-3"), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPromoteBatchUnexpectedErrorDoesNotAbort(t *testing.T) {
	store := &mockPromotionStore{failWith: map[string]error{"stu-1": errors.New("connection reset")}}
	svc := NewPromotionService(store, promotionRoster(), promotionPeriods(), nil, nil, zap.NewNop(), 0)

	result, err := svc.PromoteBatch(context.Background(), formTwoToThree("stu-1", "stu-2"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Promoted)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "promotion failed", result.FailureDetails[0].Reason)
}

func TestPromoteBatchAuditRecordsActor(t *testing.T) {
	store := &mockPromotionStore{}
	audit := &mockAuditWriter{}
	svc := NewPromotionService(store, promotionRoster(), promotionPeriods(), audit, nil, zap.NewNop(), 0)

	_, err := svc.PromoteBatch(context.Background(), formTwoToThree("stu-1"), "actor-9")
	require.NoError(t, err)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionPromote, audit.logs[0].Action)
	require.NotNil(t, audit.logs[0].ActorID)
	assert.Equal(t, "actor-9", *audit.logs[0].ActorID)
	require.NotNil(t, audit.logs[0].ResourceID)
	assert.Equal(t, "stu-1", *audit.logs[0].ResourceID)
}
