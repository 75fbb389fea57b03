package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-eval-api/internal/dto"
	"github.com/noah-isme/school-eval-api/internal/models"
	"github.com/noah-isme/school-eval-api/pkg/response"
)

type checklistService interface {
	Update(ctx context.Context, id int64, req dto.UpdateChecklistItemRequest) (*dto.ChecklistItemUpdateResult, error)
	AddComment(ctx context.Context, itemID int64, req dto.CreateCommentRequest) (*models.Comment, error)
}

// ChecklistHandler exposes checklist item mutations.
type ChecklistHandler struct {
	service checklistService
}

// NewChecklistHandler constructs a checklist handler.
func NewChecklistHandler(service checklistService) *ChecklistHandler {
	return &ChecklistHandler{service: service}
}

// Update godoc
// @Summary Update a checklist item and recompute its indicator
// @Tags Checklist
// @Accept json
// @Produce json
// @Param id path int true "Checklist item ID"
// @Param payload body dto.UpdateChecklistItemRequest true "Checklist item payload"
// @Success 200 {object} response.Envelope
// @Router /checklist-items/{id} [patch]
func (h *ChecklistHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateChecklistItemRequest
	if !bindJSON(c, &req, "invalid checklist item payload") {
		return
	}
	result, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AddComment godoc
// @Summary Comment on a checklist item
// @Tags Checklist
// @Accept json
// @Produce json
// @Param id path int true "Checklist item ID"
// @Param payload body dto.CreateCommentRequest true "Comment payload"
// @Success 201 {object} response.Envelope
// @Router /checklist-items/{id}/comments [post]
func (h *ChecklistHandler) AddComment(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateCommentRequest
	if !bindJSON(c, &req, "invalid comment payload") {
		return
	}
	comment, err := h.service.AddComment(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}
