package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/middleware"
	"github.com/Lameck1/mwingi-school-erp-sub000/internal/service"
	appErrors "github.com/Lameck1/mwingi-school-erp-sub000/pkg/errors"
	"github.com/Lameck1/mwingi-school-erp-sub000/pkg/response"
)

// PromotionHandler exposes the batch promotion endpoint.
type PromotionHandler struct {
	promotion *service.PromotionService
}

// NewPromotionHandler constructs PromotionHandler.
func NewPromotionHandler(promotion *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotion: promotion}
}

// PromoteBatch godoc
// @Summary Promote a batch of students from one class placement to the next
// @Tags Promotions
// @Accept json
// @Produce json
// @Param request body service.PromoteBatchRequest true "Promotion batch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /promotions [post]
func (h *PromotionHandler) PromoteBatch(c *gin.Context) {
	var req service.PromoteBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	result, err := h.promotion.PromoteBatch(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
