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
	"github.com/noah-isme/school-eval-api/internal/middleware"
	"github.com/noah-isme/school-eval-api/internal/models"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
)

type standardServiceMock struct {
	list      []models.StandardSummary
	hit       bool
	detail    *models.StandardDetail
	getErr    error
	updateReq dto.UpdateStandardRequest
}

func (m *standardServiceMock) List(ctx context.Context) ([]models.StandardSummary, bool, error) {
	return m.list, m.hit, nil
}

func (m *standardServiceMock) Get(ctx context.Context, id int64) (*models.StandardDetail, error) {
	return m.detail, m.getErr
}

func (m *standardServiceMock) Update(ctx context.Context, id int64, req dto.UpdateStandardRequest) (*models.Standard, error) {
	m.updateReq = req
	return &models.Standard{ID: id, StandardNo: 1, Title: "Leadership", OwnerID: req.OwnerID.Value}, nil
}

func TestStandardHandlerListReportsCacheHit(t *testing.T) {
	svc := &standardServiceMock{
		list: []models.StandardSummary{{Standard: models.Standard{ID: 1, StandardNo: 1, Title: "Leadership"}}},
		hit:  true,
	}
	c, w := newGinContext(http.MethodGet, "/api/standards", nil)
	middleware.WithResponseMeta()(c)
	NewStandardHandler(svc).List(c)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, true, env.Meta["cache_hit"])
	var standards []models.StandardSummary
	require.NoError(t, json.Unmarshal(env.Data, &standards))
	require.Len(t, standards, 1)
	assert.Equal(t, "Leadership", standards[0].Title)
}

func TestStandardHandlerGetRejectsBadID(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/api/standards/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	NewStandardHandler(&standardServiceMock{}).Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStandardHandlerGetNotFound(t *testing.T) {
	svc := &standardServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "standard not found")}
	c, w := newGinContext(http.MethodGet, "/api/standards/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	NewStandardHandler(svc).Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestStandardHandlerUpdateClearsOwner(t *testing.T) {
	svc := &standardServiceMock{}
	c, w := newGinContext(http.MethodPatch, "/api/standards/1", []byte(`{"ownerId":null}`))
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	NewStandardHandler(svc).Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.updateReq.OwnerID.Set)
	assert.Nil(t, svc.updateReq.OwnerID.Value)
	assert.Nil(t, svc.updateReq.Title)
}
