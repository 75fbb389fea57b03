package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-eval-api/internal/dto"
	"github.com/noah-isme/school-eval-api/internal/models"
)

type checklistServiceMock struct {
	updateReq  dto.UpdateChecklistItemRequest
	commentReq dto.CreateCommentRequest
}

func (m *checklistServiceMock) Update(ctx context.Context, id int64, req dto.UpdateChecklistItemRequest) (*dto.ChecklistItemUpdateResult, error) {
	m.updateReq = req
	return &dto.ChecklistItemUpdateResult{
		Item:      models.ChecklistItem{ID: id, IndicatorID: 7, Status: *req.Status},
		Indicator: models.Indicator{ID: 7, Status: models.StatusInProgress, Progress: 50},
	}, nil
}

func (m *checklistServiceMock) AddComment(ctx context.Context, itemID int64, req dto.CreateCommentRequest) (*models.Comment, error) {
	m.commentReq = req
	return &models.Comment{ID: 1, ChecklistItemID: itemID, Text: req.Text, AuthorName: "Teacher"}, nil
}

func TestChecklistHandlerUpdateReturnsRecomputedIndicator(t *testing.T) {
	svc := &checklistServiceMock{}
	c, w := newGinContext(http.MethodPatch, "/api/checklist-items/3", []byte(`{"status":"COMPLETED","assigneeId":null}`))
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	NewChecklistHandler(svc).Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.updateReq.AssigneeID.Set)
	assert.Nil(t, svc.updateReq.AssigneeID.Value)

	var result dto.ChecklistItemUpdateResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &result))
	assert.Equal(t, models.StatusCompleted, result.Item.Status)
	assert.Equal(t, 50, result.Indicator.Progress)
}

func TestChecklistHandlerAddComment(t *testing.T) {
	svc := &checklistServiceMock{}
	c, w := newGinContext(http.MethodPost, "/api/checklist-items/3/comments", []byte(`{"text":"Need signed minutes"}`))
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	NewChecklistHandler(svc).AddComment(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Need signed minutes", svc.commentReq.Text)
	assert.Empty(t, svc.commentReq.AuthorName)
}
