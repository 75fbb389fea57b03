package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-eval-api/internal/dto"
	"github.com/noah-isme/school-eval-api/internal/middleware"
	"github.com/noah-isme/school-eval-api/internal/models"
	"github.com/noah-isme/school-eval-api/pkg/response"
)

type standardService interface {
	List(ctx context.Context) ([]models.StandardSummary, bool, error)
	Get(ctx context.Context, id int64) (*models.StandardDetail, error)
	Update(ctx context.Context, id int64, req dto.UpdateStandardRequest) (*models.Standard, error)
}

// StandardHandler exposes evaluation standards.
type StandardHandler struct {
	service standardService
}

// NewStandardHandler constructs a standard handler.
func NewStandardHandler(service standardService) *StandardHandler {
	return &StandardHandler{service: service}
}

// List godoc
// @Summary List standards with progress stats
// @Tags Standards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /standards [get]
func (h *StandardHandler) List(c *gin.Context) {
	standards, hit, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, standards, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Standard detail with owner and indicators
// @Tags Standards
// @Produce json
// @Param id path int true "Standard ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /standards/{id} [get]
func (h *StandardHandler) Get(c *gin.Context) {
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
// @Summary Update standard title or owner
// @Tags Standards
// @Accept json
// @Produce json
// @Param id path int true "Standard ID"
// @Param payload body dto.UpdateStandardRequest true "Standard payload"
// @Success 200 {object} response.Envelope
// @Router /standards/{id} [patch]
func (h *StandardHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateStandardRequest
	if !bindJSON(c, &req, "invalid standard payload") {
		return
	}
	standard, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, standard, nil)
}
