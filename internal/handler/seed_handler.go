package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-eval-api/internal/dto"
	"github.com/noah-isme/school-eval-api/pkg/jobs"
	"github.com/noah-isme/school-eval-api/pkg/response"
)

type seedRunService interface {
	Enqueue(ctx context.Context) (*dto.SeedRunResponse, error)
	Status(ctx context.Context, id string) (*jobs.Status, error)
}

// SeedHandler queues importer runs.
type SeedHandler struct {
	runs seedRunService
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(runs seedRunService) *SeedHandler {
	return &SeedHandler{runs: runs}
}

// Run godoc
// @Summary Queue an import of the configured dataset
// @Tags Seed
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /seed/runs [post]
func (h *SeedHandler) Run(c *gin.Context) {
	run, err := h.runs.Enqueue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, run)
}

// Status godoc
// @Summary Seed run status
// @Tags Seed
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /seed/runs/{id} [get]
func (h *SeedHandler) Status(c *gin.Context) {
	status, err := h.runs.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
