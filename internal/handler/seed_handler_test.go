package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-eval-api/internal/dto"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
	"github.com/noah-isme/school-eval-api/pkg/jobs"
)

type seedRunServiceMock struct {
	calls int
	err   error
}

func (m *seedRunServiceMock) Enqueue(ctx context.Context) (*dto.SeedRunResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SeedRunResponse{ID: "run-1", State: string(jobs.StateQueued)}, nil
}

func (m *seedRunServiceMock) Status(ctx context.Context, id string) (*jobs.Status, error) {
	if id != "run-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "seed run not found")
	}
	return &jobs.Status{ID: id, State: jobs.StateSucceeded, Attempts: 1}, nil
}

func TestSeedHandlerRunQueuesConfiguredDataset(t *testing.T) {
	svc := &seedRunServiceMock{}
	c, w := newGinContext(http.MethodPost, "/api/seed/runs", nil)
	NewSeedHandler(svc).Run(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"id":"run-1","state":"QUEUED"}`, string(decodeEnvelope(t, w).Data))
	assert.Equal(t, 1, svc.calls)
}

func TestSeedHandlerRunQueueFull(t *testing.T) {
	svc := &seedRunServiceMock{err: appErrors.Clone(appErrors.ErrBusy, "too many seed runs queued, retry later")}
	c, w := newGinContext(http.MethodPost, "/api/seed/runs", nil)
	NewSeedHandler(svc).Run(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "SERVICE_BUSY")
}

func TestSeedHandlerStatus(t *testing.T) {
	svc := &seedRunServiceMock{}
	c, w := newGinContext(http.MethodGet, "/api/seed/runs/run-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}
	NewSeedHandler(svc).Status(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodGet, "/api/seed/runs/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	NewSeedHandler(svc).Status(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
