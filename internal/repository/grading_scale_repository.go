package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
)

// GradingScaleRepository reads grade-band configuration per curriculum.
type GradingScaleRepository struct {
	db *sqlx.DB
}

// NewGradingScaleRepository constructs the repository.
func NewGradingScaleRepository(db *sqlx.DB) *GradingScaleRepository {
	return &GradingScaleRepository{db: db}
}

// ListByCurriculum returns the configured bands ordered by min_score
// ascending. Band integrity (no gaps, no overlaps) is validated by the
// grading service, not assumed here.
func (r *GradingScaleRepository) ListByCurriculum(ctx context.Context, curriculum models.Curriculum) ([]models.GradeBand, error) {
	const query = `SELECT id, curriculum, grade, remarks, min_score, max_score
        FROM grading_scales WHERE curriculum = $1 ORDER BY min_score ASC`
	var bands []models.GradeBand
	if err := r.db.SelectContext(ctx, &bands, query, curriculum); err != nil {
		return nil, fmt.Errorf("list grading scale: %w", err)
	}
	return bands, nil
}
