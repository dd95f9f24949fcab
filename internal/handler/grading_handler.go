package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
	"github.com/Lameck1/mwingi-school-erp-sub000/internal/service"
	appErrors "github.com/Lameck1/mwingi-school-erp-sub000/pkg/errors"
	"github.com/Lameck1/mwingi-school-erp-sub000/pkg/response"
)

// GradingHandler exposes grading scale endpoints.
type GradingHandler struct {
	grading *service.GradingService
}

// NewGradingHandler constructs GradingHandler.
func NewGradingHandler(grading *service.GradingService) *GradingHandler {
	return &GradingHandler{grading: grading}
}

// Scale godoc
// @Summary List grade bands for a curriculum
// @Tags Grading
// @Produce json
// @Param curriculum path string true "Curriculum (e.g. 8-4-4, CBC)"
// @Success 200 {object} response.Envelope
// @Router /grading-scales/{curriculum} [get]
func (h *GradingHandler) Scale(c *gin.Context) {
	bands, err := h.grading.Scale(c.Request.Context(), models.Curriculum(c.Param("curriculum")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bands, nil)
}

// GradeFor godoc
// @Summary Resolve a score to a letter grade
// @Tags Grading
// @Produce json
// @Param curriculum path string true "Curriculum"
// @Param score query number true "Score"
// @Success 200 {object} response.Envelope
// @Router /grading-scales/{curriculum}/grade [get]
func (h *GradingHandler) GradeFor(c *gin.Context) {
	score, err := strconv.ParseFloat(c.Query("score"), 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "score must be numeric"))
		return
	}

	band, err := h.grading.GradeFor(c.Request.Context(), models.Curriculum(c.Param("curriculum")), score)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, band, nil)
}
