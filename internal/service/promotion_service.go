package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
	"github.com/Lameck1/mwingi-school-erp-sub000/internal/repository"
	appErrors "github.com/Lameck1/mwingi-school-erp-sub000/pkg/errors"
)

type promotionStore interface {
	PromoteStudent(ctx context.Context, params repository.PromoteStudentParams) (*models.Enrollment, error)
}

type studentBatchReader interface {
	ListByIDs(ctx context.Context, ids []string) (map[string]models.Student, error)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// PromoteBatchRequest describes a batch transition of students from one
// enrollment descriptor to the next.
type PromoteBatchRequest struct {
	StudentIDs   []string `json:"student_ids" validate:"required,min=1,dive,required"`
	FromStreamID string   `json:"from_stream_id" validate:"required"`
	FromYearID   string   `json:"from_year_id" validate:"required"`
	ToStreamID   string   `json:"to_stream_id" validate:"required"`
	ToYearID     string   `json:"to_year_id" validate:"required"`
	ToTermID     string   `json:"to_term_id" validate:"required"`
}

// PromotionService executes batch student promotions. Each student's
// transition is independent and atomic; one failure neither rolls back nor
// blocks another's committed success. The batch call itself fails only on
// infrastructure-level faults.
type PromotionService struct {
	repo         promotionStore
	students     studentBatchReader
	periods      periodReader
	audit        auditWriter
	validator    *validator.Validate
	logger       *zap.Logger
	maxBatchSize int
}

// NewPromotionService constructs PromotionService.
func NewPromotionService(repo promotionStore, students studentBatchReader, periods periodReader, audit auditWriter, validate *validator.Validate, logger *zap.Logger, maxBatchSize int) *PromotionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBatchSize <= 0 {
		maxBatchSize = 500
	}
	return &PromotionService{repo: repo, students: students, periods: periods, audit: audit, validator: validate, logger: logger, maxBatchSize: maxBatchSize}
}

// PromoteBatch transitions each listed student from the source descriptor to
// the destination. Rerunning the same batch after a partial success fails
// the already-promoted students with "not currently enrolled in source
// class", since their source rows are now TRANSFERRED; that follows from
// the state machine, not from a replay check.
func (s *PromotionService) PromoteBatch(ctx context.Context, req PromoteBatchRequest, actorID string) (*models.PromotionBatchResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid promotion payload")
	}
	if len(req.StudentIDs) > s.maxBatchSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("batch exceeds %d students", s.maxBatchSize))
	}
	if err := s.validateDescriptors(ctx, req); err != nil {
		return nil, err
	}

	students, err := s.students.ListByIDs(ctx, req.StudentIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}

	result := &models.PromotionBatchResult{
		Attempted:      len(req.StudentIDs),
		Errors:         []string{},
		FailureDetails: []models.PromotionFailure{},
	}
	for _, studentID := range req.StudentIDs {
		student, ok := students[studentID]
		if !ok {
			s.recordFailure(result, studentID, models.Student{}, "student not found")
			continue
		}

		enrollment, err := s.repo.PromoteStudent(ctx, repository.PromoteStudentParams{
			StudentID:    studentID,
			FromStreamID: req.FromStreamID,
			FromYearID:   req.FromYearID,
			ToStreamID:   req.ToStreamID,
			ToYearID:     req.ToYearID,
			ToTermID:     req.ToTermID,
		})
		if err != nil {
			if errors.Is(err, repository.ErrNotEnrolledInSource) {
				s.recordFailure(result, studentID, student, repository.ErrNotEnrolledInSource.Error())
				continue
			}
			if ctx.Err() != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "promotion batch aborted")
			}
			s.logger.Error("promote student", zap.String("student_id", studentID), zap.Error(err))
			s.recordFailure(result, studentID, student, "promotion failed")
			continue
		}

		result.Promoted++
		s.emitAudit(ctx, actorID, studentID, enrollment)
	}
	return result, nil
}

func (s *PromotionService) validateDescriptors(ctx context.Context, req PromoteBatchRequest) error {
	type lookup struct {
		name string
		fn   func() error
	}
	lookups := []lookup{
		{"source academic year", func() error { _, err := s.periods.FindYear(ctx, req.FromYearID); return err }},
		{"destination academic year", func() error { _, err := s.periods.FindYear(ctx, req.ToYearID); return err }},
		{"destination term", func() error { _, err := s.periods.FindTerm(ctx, req.ToTermID); return err }},
		{"source stream", func() error { _, err := s.periods.FindStream(ctx, req.FromStreamID); return err }},
		{"destination stream", func() error { _, err := s.periods.FindStream(ctx, req.ToStreamID); return err }},
	}
	for _, l := range lookups {
		if err := l.fn(); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrInvalidPeriod, "unknown "+l.name)
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+l.name)
		}
	}
	return nil
}

func (s *PromotionService) recordFailure(result *models.PromotionBatchResult, studentID string, student models.Student, reason string) {
	result.Failed++
	result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", studentID, reason))
	result.FailureDetails = append(result.FailureDetails, models.PromotionFailure{
		StudentID:   studentID,
		StudentName: student.FullName(),
		AdmissionNo: student.AdmissionNo,
		Reason:      reason,
	})
}

// emitAudit records the transition best-effort; an audit write failure never
// fails an already-committed promotion.
func (s *PromotionService) emitAudit(ctx context.Context, actorID, studentID string, enrollment *models.Enrollment) {
	if s.audit == nil {
		return
	}
	newValues, err := json.Marshal(enrollment)
	if err != nil {
		newValues = []byte("{}")
	}
	log := &models.AuditLog{
		Action:     models.AuditActionPromote,
		Resource:   "enrollment",
		ResourceID: &studentID,
		NewValues:  newValues,
	}
	if actorID != "" {
		log.ActorID = &actorID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("audit promotion", zap.String("student_id", studentID), zap.Error(err))
	}
}
