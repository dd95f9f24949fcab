package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
	"github.com/Lameck1/mwingi-school-erp-sub000/internal/service"
	"github.com/Lameck1/mwingi-school-erp-sub000/pkg/response"
)

type scaleReaderStub struct {
	bands []models.GradeBand
}

func (s *scaleReaderStub) ListByCurriculum(ctx context.Context, curriculum models.Curriculum) ([]models.GradeBand, error) {
	return s.bands, nil
}

func newGradingRouter(bands []models.GradeBand) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewGradingHandler(service.NewGradingService(&scaleReaderStub{bands: bands}, zap.NewNop()))
	r := gin.New()
	r.GET("/grading-scales/:curriculum", h.Scale)
	r.GET("/grading-scales/:curriculum/grade", h.GradeFor)
	return r
}

func standardBands() []models.GradeBand {
	return []models.GradeBand{
		{Grade: "C", MinScore: 0, MaxScore: 59},
		{Grade: "B", MinScore: 60, MaxScore: 79},
		{Grade: "A", MinScore: 80, MaxScore: 100},
	}
}

func TestGradingHandlerScale(t *testing.T) {
	r := newGradingRouter(standardBands())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/grading-scales/8-4-4", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data)
}

func TestGradingHandlerGradeFor(t *testing.T) {
	r := newGradingRouter(standardBands())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/grading-scales/8-4-4/grade?score=80", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data models.GradeBand `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "A", envelope.Data.Grade)
}

func TestGradingHandlerGradeForNonNumeric(t *testing.T) {
	r := newGradingRouter(standardBands())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/grading-scales/8-4-4/grade?score=eighty", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGradingHandlerGradeForUncoveredScore(t *testing.T) {
	r := newGradingRouter([]models.GradeBand{{Grade: "A", MinScore: 80, MaxScore: 100}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/grading-scales/8-4-4/grade?score=50", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
