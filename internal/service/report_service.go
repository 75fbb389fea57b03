package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-eval-api/internal/models"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
	"github.com/noah-isme/school-eval-api/pkg/export"
)

// Report formats.
const (
	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

var progressColumns = []export.Column{
	{Key: "standard_no", Header: "Standard", Weight: 0.8},
	{Key: "standard_title", Header: "Standard title", Weight: 2.5},
	{Key: "indicator_code", Header: "Code", Weight: 0.8},
	{Key: "indicator_name", Header: "Indicator", Weight: 3},
	{Key: "status", Header: "Status", Weight: 1.2},
	{Key: "progress", Header: "Progress %", Weight: 0.9},
	{Key: "checklist", Header: "Items done", Weight: 0.9},
}

type reportIndicatorSource interface {
	List(ctx context.Context, filter models.IndicatorFilter) ([]models.Indicator, error)
}

type reportStandardSource interface {
	List(ctx context.Context) ([]models.Standard, error)
}

type reportChecklistSource interface {
	CountByIndicator(ctx context.Context) (map[int64][2]int, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ReportFile is a rendered export ready to be streamed.
type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService renders the per-indicator progress report.
type ReportService struct {
	standards  reportStandardSource
	indicators reportIndicatorSource
	items      reportChecklistSource
	csv        datasetRenderer
	pdf        datasetRenderer
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService constructs the report service with the CSV and PDF exporters.
func NewReportService(standards reportStandardSource, indicators reportIndicatorSource, items reportChecklistSource, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		standards:  standards,
		indicators: indicators,
		items:      items,
		csv:        export.NewCSVExporter(true),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
		now:        time.Now,
	}
}

// Progress renders every indicator's progress in the requested format.
func (s *ReportService) Progress(ctx context.Context, format string) (*ReportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ReportFormatCSV
	}
	var (
		renderer    datasetRenderer
		contentType string
	)
	switch format {
	case ReportFormatCSV:
		renderer, contentType = s.csv, "text/csv; charset=utf-8"
	case ReportFormatPDF:
		renderer, contentType = s.pdf, "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	dataset, err := s.progressDataset(ctx)
	if err != nil {
		return nil, err
	}
	data, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	s.logger.Info("progress report rendered", zap.String("format", format), zap.Int("rows", len(dataset.Rows)))
	return &ReportFile{
		Filename:    fmt.Sprintf("progress-%s.%s", s.now().UTC().Format("20060102"), format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (s *ReportService) progressDataset(ctx context.Context) (export.Dataset, error) {
	standards, err := s.standards.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list standards")
	}
	indicators, err := s.indicators.List(ctx, models.IndicatorFilter{})
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list indicators")
	}
	counts, err := s.items.CountByIndicator(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count checklist items")
	}

	byStandard := make(map[int64][]models.Indicator, len(standards))
	for _, indicator := range indicators {
		byStandard[indicator.StandardID] = append(byStandard[indicator.StandardID], indicator)
	}

	rows := make([]map[string]string, 0, len(indicators))
	for _, standard := range standards {
		for _, indicator := range byStandard[standard.ID] {
			count := counts[indicator.ID]
			rows = append(rows, map[string]string{
				"standard_no":    strconv.Itoa(standard.StandardNo),
				"standard_title": standard.Title,
				"indicator_code": indicator.Code,
				"indicator_name": indicator.Name,
				"status":         string(indicator.Status),
				"progress":       strconv.Itoa(indicator.Progress),
				"checklist":      fmt.Sprintf("%d/%d", count[0], count[1]),
			})
		}
	}
	return export.Dataset{Title: "Indicator progress", Columns: progressColumns, Rows: rows}, nil
}
