package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/service"
	appErrors "github.com/Lameck1/mwingi-school-erp-sub000/pkg/errors"
	"github.com/Lameck1/mwingi-school-erp-sub000/pkg/response"
)

// AnalyticsHandler exposes exam statistics and item-analysis endpoints.
type AnalyticsHandler struct {
	analytics    *service.AnalyticsService
	itemAnalysis *service.ItemAnalysisService
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, itemAnalysis *service.ItemAnalysisService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, itemAnalysis: itemAnalysis}
}

// SubjectAnalysis godoc
// @Summary Descriptive statistics for one subject within a stream
// @Tags Analytics
// @Produce json
// @Param examId query string true "Exam ID"
// @Param subjectId query string true "Subject ID"
// @Param streamId query string true "Stream ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/subject [get]
func (h *AnalyticsHandler) SubjectAnalysis(c *gin.Context) {
	examID, subjectID, streamID := c.Query("examId"), c.Query("subjectId"), c.Query("streamId")
	if examID == "" || subjectID == "" || streamID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "examId, subjectId and streamId are required"))
		return
	}

	analysis, cached, err := h.analytics.SubjectAnalysis(c.Request.Context(), examID, subjectID, streamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analysis, nil, map[string]interface{}{"cached": cached})
}

// AllSubjects godoc
// @Summary Statistics for every examined subject within a stream
// @Tags Analytics
// @Produce json
// @Param examId query string true "Exam ID"
// @Param streamId query string true "Stream ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/subjects [get]
func (h *AnalyticsHandler) AllSubjects(c *gin.Context) {
	examID, streamID := c.Query("examId"), c.Query("streamId")
	if examID == "" || streamID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "examId and streamId are required"))
		return
	}

	analyses, cached, err := h.analytics.AnalyzeAllSubjects(c.Request.Context(), examID, streamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analyses, nil, map[string]interface{}{"cached": cached})
}

// StudentPerformance godoc
// @Summary One student's per-subject results and overall average
// @Tags Analytics
// @Produce json
// @Param id path string true "Student ID"
// @Param examId query string true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/students/{id}/performance [get]
func (h *AnalyticsHandler) StudentPerformance(c *gin.Context) {
	examID := c.Query("examId")
	if examID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "examId is required"))
		return
	}

	performance, err := h.analytics.StudentPerformance(c.Request.Context(), c.Param("id"), examID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, performance, nil)
}

// SubjectDifficulty godoc
// @Summary Item-analysis metrics for one subject within a stream
// @Tags Analytics
// @Produce json
// @Param examId query string true "Exam ID"
// @Param subjectId query string true "Subject ID"
// @Param streamId query string true "Stream ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/difficulty [get]
func (h *AnalyticsHandler) SubjectDifficulty(c *gin.Context) {
	examID, subjectID, streamID := c.Query("examId"), c.Query("subjectId"), c.Query("streamId")
	if examID == "" || subjectID == "" || streamID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "examId, subjectId and streamId are required"))
		return
	}

	analysis, err := h.itemAnalysis.SubjectDifficulty(c.Request.Context(), examID, subjectID, streamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analysis, nil)
}

// System godoc
// @Summary Instrumentation snapshot for the analytics surface
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.analytics.SystemMetrics(), nil)
}
