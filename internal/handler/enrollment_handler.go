package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/service"
	appErrors "github.com/Lameck1/mwingi-school-erp-sub000/pkg/errors"
	"github.com/Lameck1/mwingi-school-erp-sub000/pkg/response"
)

// EnrollmentHandler exposes enrollment resolution endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Resolve godoc
// @Summary Resolve a student's authoritative enrollment for a period
// @Tags Enrollments
// @Produce json
// @Param studentId query string true "Student ID"
// @Param yearId query string true "Academic year ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/resolve [get]
func (h *EnrollmentHandler) Resolve(c *gin.Context) {
	studentID := c.Query("studentId")
	yearID := c.Query("yearId")
	termID := c.Query("termId")
	if studentID == "" || yearID == "" || termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "studentId, yearId and termId are required"))
		return
	}

	enrollment, err := h.enrollments.Resolve(c.Request.Context(), studentID, yearID, termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"enrolled":   enrollment != nil,
		"enrollment": enrollment,
	}, nil)
}

// Roster godoc
// @Summary List students actively enrolled in a stream for a period
// @Tags Enrollments
// @Produce json
// @Param id path string true "Stream ID"
// @Param yearId query string true "Academic year ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /streams/{id}/roster [get]
func (h *EnrollmentHandler) Roster(c *gin.Context) {
	yearID := c.Query("yearId")
	termID := c.Query("termId")
	if yearID == "" || termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "yearId and termId are required"))
		return
	}

	roster, err := h.enrollments.Roster(c.Request.Context(), c.Param("id"), yearID, termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil, map[string]interface{}{"count": len(roster)})
}
