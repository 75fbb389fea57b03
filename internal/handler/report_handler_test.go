package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-eval-api/internal/service"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
)

type reportServiceMock struct {
	format string
}

func (m *reportServiceMock) Progress(ctx context.Context, format string) (*service.ReportFile, error) {
	m.format = format
	if format == "xlsx" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
	return &service.ReportFile{Filename: "progress-20240301.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("Standard\n")}, nil
}

func TestReportHandlerProgressDownload(t *testing.T) {
	svc := &reportServiceMock{}
	c, w := newGinContext(http.MethodGet, "/api/reports/progress?format=csv", nil)
	NewReportHandler(svc).Progress(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", svc.format)
	assert.Equal(t, `attachment; filename="progress-20240301.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "Standard\n", w.Body.String())
}

func TestReportHandlerProgressUnknownFormat(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/api/reports/progress?format=xlsx", nil)
	NewReportHandler(&reportServiceMock{}).Progress(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}
