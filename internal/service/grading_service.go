package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
	appErrors "github.com/Lameck1/mwingi-school-erp-sub000/pkg/errors"
)

type gradingScaleReader interface {
	ListByCurriculum(ctx context.Context, curriculum models.Curriculum) ([]models.GradeBand, error)
}

// GradingService resolves scores to letter grades from curriculum-specific
// band tables. Configuration gaps and overlaps are surfaced as hard errors;
// no statistical computation can proceed safely on an inconsistent scale.
type GradingService struct {
	repo   gradingScaleReader
	logger *zap.Logger
}

// NewGradingService constructs GradingService.
func NewGradingService(repo gradingScaleReader, logger *zap.Logger) *GradingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradingService{repo: repo, logger: logger}
}

// Scale returns the configured bands for a curriculum ordered by min_score.
func (s *GradingService) Scale(ctx context.Context, curriculum models.Curriculum) ([]models.GradeBand, error) {
	bands, err := s.repo.ListByCurriculum(ctx, curriculum)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading scale")
	}
	return bands, nil
}

// GradeFor maps a score to the unique band containing it, inclusive on both
// ends. Zero matching bands is a configuration gap; more than one is an
// overlap. Both are reported, never silently resolved by picking a band.
func (s *GradingService) GradeFor(ctx context.Context, curriculum models.Curriculum, score float64) (*models.GradeBand, error) {
	bands, err := s.Scale(ctx, curriculum)
	if err != nil {
		return nil, err
	}
	var match *models.GradeBand
	for i := range bands {
		if !bands[i].Contains(score) {
			continue
		}
		if match != nil {
			return nil, appErrors.Clone(appErrors.ErrAmbiguousGradeBand,
				fmt.Sprintf("score %.2f falls in bands %s and %s for curriculum %s", score, match.Grade, bands[i].Grade, curriculum))
		}
		match = &bands[i]
	}
	if match == nil {
		return nil, appErrors.Clone(appErrors.ErrNoGradeBand,
			fmt.Sprintf("no band covers score %.2f for curriculum %s", score, curriculum))
	}
	return match, nil
}

// PassThreshold returns the min_score of the lowest non-failing band. Bands
// arrive sorted by min_score; the bottom band is the failing band. A scale
// with a single band passes everyone at that band's min.
func (s *GradingService) PassThreshold(ctx context.Context, curriculum models.Curriculum) (float64, error) {
	bands, err := s.Scale(ctx, curriculum)
	if err != nil {
		return 0, err
	}
	if len(bands) == 0 {
		return 0, appErrors.Clone(appErrors.ErrNoGradeBand,
			fmt.Sprintf("no grading scale configured for curriculum %s", curriculum))
	}
	if len(bands) == 1 {
		return bands[0].MinScore, nil
	}
	return bands[1].MinScore, nil
}
