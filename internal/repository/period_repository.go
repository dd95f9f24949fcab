package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
)

// PeriodRepository resolves academic calendar identifiers: years, terms and
// streams. These are small reference tables consulted for validation before
// any aggregation runs.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository constructs the repository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// FindYear returns an academic year by ID.
func (r *PeriodRepository) FindYear(ctx context.Context, id string) (*models.AcademicYear, error) {
	const query = `SELECT id, name, start_date, end_date, created_at FROM academic_years WHERE id = $1`
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query, id); err != nil {
		return nil, err
	}
	return &year, nil
}

// FindTerm returns a term by ID.
func (r *PeriodRepository) FindTerm(ctx context.Context, id string) (*models.Term, error) {
	const query = `SELECT id, name, sequence, created_at FROM terms WHERE id = $1`
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, id); err != nil {
		return nil, err
	}
	return &term, nil
}

// FindStream returns a stream by ID.
func (r *PeriodRepository) FindStream(ctx context.Context, id string) (*models.Stream, error) {
	const query = `SELECT id, name, created_at FROM streams WHERE id = $1`
	var stream models.Stream
	if err := r.db.GetContext(ctx, &stream, query, id); err != nil {
		return nil, err
	}
	return &stream, nil
}
