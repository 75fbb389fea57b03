package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-eval-api/internal/dto"
	"github.com/noah-isme/school-eval-api/internal/models"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
)

type indicatorServiceMock struct {
	filter    models.IndicatorFilter
	updateReq dto.UpdateIndicatorRequest
	updateErr error
}

func (m *indicatorServiceMock) List(ctx context.Context, filter models.IndicatorFilter) ([]models.IndicatorListItem, error) {
	m.filter = filter
	return []models.IndicatorListItem{}, nil
}

func (m *indicatorServiceMock) Get(ctx context.Context, id int64) (*models.IndicatorDetail, error) {
	return &models.IndicatorDetail{Indicator: models.Indicator{ID: id}, Checklist: []models.ChecklistItemDetail{}}, nil
}

func (m *indicatorServiceMock) Update(ctx context.Context, id int64, req dto.UpdateIndicatorRequest) (*models.Indicator, error) {
	m.updateReq = req
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &models.Indicator{ID: id, Status: models.StatusCompleted, Progress: 100}, nil
}

func TestIndicatorHandlerListPassesStandardFilter(t *testing.T) {
	svc := &indicatorServiceMock{}
	c, w := newGinContext(http.MethodGet, "/api/indicators?standardId=3", nil)
	NewIndicatorHandler(svc).List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), svc.filter.StandardID)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, w).Data))
}

func TestIndicatorHandlerListRejectsBadFilter(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/api/indicators?standardId=x", nil)
	NewIndicatorHandler(&indicatorServiceMock{}).List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIndicatorHandlerUpdate(t *testing.T) {
	svc := &indicatorServiceMock{}
	c, w := newGinContext(http.MethodPatch, "/api/indicators/4", []byte(`{"status":"COMPLETED","progress":100,"managerId":2}`))
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	NewIndicatorHandler(svc).Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.updateReq.Progress)
	assert.Equal(t, 100, *svc.updateReq.Progress)
	require.NotNil(t, svc.updateReq.ManagerID.Value)
	assert.Equal(t, int64(2), *svc.updateReq.ManagerID.Value)
}

func TestIndicatorHandlerUpdateValidationError(t *testing.T) {
	svc := &indicatorServiceMock{updateErr: appErrors.Clone(appErrors.ErrValidation, "progress must be between 0 and 100")}
	c, w := newGinContext(http.MethodPatch, "/api/indicators/4", []byte(`{"progress":140}`))
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	NewIndicatorHandler(svc).Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w).Error.Code)
}

func TestIndicatorHandlerUpdateMalformedBody(t *testing.T) {
	c, w := newGinContext(http.MethodPatch, "/api/indicators/4", []byte(`{"progress":`))
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	NewIndicatorHandler(&indicatorServiceMock{}).Update(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
