package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-eval-api/internal/dto"
	"github.com/noah-isme/school-eval-api/internal/models"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
	"github.com/noah-isme/school-eval-api/pkg/response"
)

type indicatorService interface {
	List(ctx context.Context, filter models.IndicatorFilter) ([]models.IndicatorListItem, error)
	Get(ctx context.Context, id int64) (*models.IndicatorDetail, error)
	Update(ctx context.Context, id int64, req dto.UpdateIndicatorRequest) (*models.Indicator, error)
}

// IndicatorHandler exposes indicators and their checklists.
type IndicatorHandler struct {
	service indicatorService
}

// NewIndicatorHandler constructs an indicator handler.
func NewIndicatorHandler(service indicatorService) *IndicatorHandler {
	return &IndicatorHandler{service: service}
}

// List godoc
// @Summary List indicators
// @Tags Indicators
// @Produce json
// @Param standardId query int false "Filter by standard"
// @Success 200 {object} response.Envelope
// @Router /indicators [get]
func (h *IndicatorHandler) List(c *gin.Context) {
	var filter models.IndicatorFilter
	if raw := c.Query("standardId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "invalid standardId"))
			return
		}
		filter.StandardID = id
	}
	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Indicator detail with checklist, evidence and comments
// @Tags Indicators
// @Produce json
// @Param id path int true "Indicator ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /indicators/{id} [get]
func (h *IndicatorHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Update godoc
// @Summary Update indicator status, progress, manager or name
// @Tags Indicators
// @Accept json
// @Produce json
// @Param id path int true "Indicator ID"
// @Param payload body dto.UpdateIndicatorRequest true "Indicator payload"
// @Success 200 {object} response.Envelope
// @Router /indicators/{id} [patch]
func (h *IndicatorHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateIndicatorRequest
	if !bindJSON(c, &req, "invalid indicator payload") {
		return
	}
	indicator, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, indicator, nil)
}
