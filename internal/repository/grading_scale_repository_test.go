package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
)

func TestGradingScaleRepositoryListByCurriculum(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradingScaleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "curriculum", "grade", "remarks", "min_score", "max_score"}).
		AddRow("b-c", "8-4-4", "C", "Below average", 0.0, 59.0).
		AddRow("b-b", "8-4-4", "B", "Good", 60.0, 79.0).
		AddRow("b-a", "8-4-4", "A", "Excellent", 80.0, 100.0)
	mock.ExpectQuery("SELECT id, curriculum, grade, remarks, min_score, max_score").
		WithArgs(models.CurriculumEightFourFour).
		WillReturnRows(rows)

	bands, err := repo.ListByCurriculum(context.Background(), models.CurriculumEightFourFour)
	require.NoError(t, err)
	require.Len(t, bands, 3)
	require.Equal(t, "C", bands[0].Grade)
	require.Equal(t, 60.0, bands[1].MinScore)
	require.NoError(t, mock.ExpectationsWereMet())
}
