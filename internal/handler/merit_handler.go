package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/service"
	appErrors "github.com/Lameck1/mwingi-school-erp-sub000/pkg/errors"
	"github.com/Lameck1/mwingi-school-erp-sub000/pkg/export"
	"github.com/Lameck1/mwingi-school-erp-sub000/pkg/response"
)

// MeritHandler exposes merit list and improvement endpoints.
type MeritHandler struct {
	merit *service.MeritService
	csv   *export.CSVExporter
	pdf   *export.PDFExporter
}

// NewMeritHandler constructs MeritHandler.
func NewMeritHandler(merit *service.MeritService, csv *export.CSVExporter, pdf *export.PDFExporter) *MeritHandler {
	return &MeritHandler{merit: merit, csv: csv, pdf: pdf}
}

// SubjectMeritList godoc
// @Summary Ranked merit list for one subject within a stream
// @Tags Merit
// @Produce json
// @Param examId query string true "Exam ID"
// @Param subjectId query string true "Subject ID"
// @Param streamId query string true "Stream ID"
// @Param format query string false "Export format: csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /merit/subject [get]
func (h *MeritHandler) SubjectMeritList(c *gin.Context) {
	examID, subjectID, streamID := c.Query("examId"), c.Query("subjectId"), c.Query("streamId")
	if examID == "" || subjectID == "" || streamID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "examId, subjectId and streamId are required"))
		return
	}

	entries, err := h.merit.SubjectMeritList(c.Request.Context(), examID, subjectID, streamID)
	if err != nil {
		response.Error(c, err)
		return
	}

	switch c.Query("format") {
	case "":
		response.JSON(c, http.StatusOK, entries, nil, map[string]interface{}{"count": len(entries)})
	case "csv":
		payload, err := h.csv.Render(export.MeritListDataset("Subject Merit List", entries))
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=merit-%s-%s.csv", examID, subjectID))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.pdf.Render(export.MeritListDataset("Subject Merit List", entries))
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=merit-%s-%s.pdf", examID, subjectID))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

// MostImproved godoc
// @Summary Students whose term average improved by at least the threshold
// @Tags Merit
// @Produce json
// @Param yearId query string true "Academic year ID"
// @Param comparisonTermId query string true "Comparison term ID"
// @Param currentTermId query string true "Current term ID"
// @Param streamId query string false "Restrict to one stream"
// @Param threshold query number false "Minimum improvement (default 0)"
// @Success 200 {object} response.Envelope
// @Router /merit/most-improved [get]
func (h *MeritHandler) MostImproved(c *gin.Context) {
	yearID := c.Query("yearId")
	comparisonTermID := c.Query("comparisonTermId")
	currentTermID := c.Query("currentTermId")
	if yearID == "" || comparisonTermID == "" || currentTermID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "yearId, comparisonTermId and currentTermId are required"))
		return
	}
	threshold := 0.0
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "threshold must be numeric"))
			return
		}
		threshold = parsed
	}

	entries, err := h.merit.MostImproved(c.Request.Context(), yearID, comparisonTermID, currentTermID, c.Query("streamId"), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil, map[string]interface{}{"count": len(entries)})
}
