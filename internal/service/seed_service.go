package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/school-eval-api/internal/models"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
	"github.com/noah-isme/school-eval-api/pkg/requirements"
)

type seedStandardStore interface {
	UpsertByNumber(ctx context.Context, standardNo int, title string) error
	ListByNumbers(ctx context.Context, nos []int) ([]models.Standard, error)
}

type seedIndicatorStore interface {
	FindByStandardAndCode(ctx context.Context, standardID int64, code string) (*models.Indicator, error)
	Create(ctx context.Context, indicator *models.Indicator) error
	UpdateName(ctx context.Context, id int64, name string) error
}

type seedChecklistStore interface {
	ListByIndicator(ctx context.Context, indicatorID int64) ([]models.ChecklistItem, error)
	CreateMany(ctx context.Context, indicatorID int64, texts []string) error
}

// SeedService imports the standards dataset. Runs are idempotent: standards are upserted by
// number, indicators by (standard, code) and checklist items are only added when their
// normalized text is new for the indicator.
type SeedService struct {
	standards  seedStandardStore
	indicators seedIndicatorStore
	items      seedChecklistStore
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewSeedService constructs the importer.
func NewSeedService(standards seedStandardStore, indicators seedIndicatorStore, items seedChecklistStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{standards: standards, indicators: indicators, items: items, cache: cache, metrics: metrics, logger: logger}
}

// LoadDataset reads a JSON array of rows from path.
func LoadDataset(path string) ([]models.SeedRow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("seed file not found: %s", path))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read seed file")
	}
	var rows []models.SeedRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrBadRequest, err, "seed file is not a JSON array of rows")
	}
	return rows, nil
}

// RunFile loads the dataset at path and imports it.
func (s *SeedService) RunFile(ctx context.Context, path string) (*models.SeedResult, error) {
	rows, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	s.logger.Info("seed dataset loaded", zap.String("path", path), zap.Int("rows", len(rows)))
	return s.Run(ctx, rows)
}

// Run imports rows. Rows without a usable standard number, code or name are skipped.
func (s *SeedService) Run(ctx context.Context, rows []models.SeedRow) (*models.SeedResult, error) {
	result := &models.SeedResult{Rows: len(rows)}

	titles := make(map[int]string)
	for _, row := range rows {
		if !row.StandardNo.Valid {
			continue
		}
		titles[row.StandardNo.Value] = requirements.Normalize(row.StandardTitle)
	}
	nos := make([]int, 0, len(titles))
	for no := range titles {
		nos = append(nos, no)
	}
	sort.Ints(nos)

	for _, no := range nos {
		if err := s.standards.UpsertByNumber(ctx, no, titles[no]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to upsert standard %d", no))
		}
	}
	result.StandardsUpserted = len(nos)

	standards, err := s.standards.ListByNumbers(ctx, nos)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload standards")
	}
	byNo := make(map[int]models.Standard, len(standards))
	for _, standard := range standards {
		byNo[standard.StandardNo] = standard
	}

	for i, row := range rows {
		standard, ok := byNo[row.StandardNo.Value]
		code := requirements.Normalize(row.IndicatorCode)
		name := requirements.Normalize(row.IndicatorName)
		if !row.StandardNo.Valid || !ok || code == "" || name == "" {
			result.RowsSkipped++
			s.logger.Debug("seed row skipped", zap.Int("row", i), zap.String("indicator_code", code))
			continue
		}

		indicatorID, err := s.upsertIndicator(ctx, standard.ID, code, name)
		if err != nil {
			return nil, err
		}
		result.IndicatorsProcessed++

		added, err := s.addChecklistItems(ctx, indicatorID, row.Requirements)
		if err != nil {
			return nil, err
		}
		result.ChecklistAdded += added
	}

	s.metrics.RecordSeedRows("imported", result.IndicatorsProcessed)
	s.metrics.RecordSeedRows("skipped", result.RowsSkipped)
	_ = s.cache.Invalidate(ctx, cacheKeyStandardsPrefix)

	s.logger.Info("seed completed",
		zap.Int("standards", result.StandardsUpserted),
		zap.Int("indicators_processed", result.IndicatorsProcessed),
		zap.Int("checklist_items_added", result.ChecklistAdded),
		zap.Int("rows_skipped", result.RowsSkipped))
	return result, nil
}

func (s *SeedService) upsertIndicator(ctx context.Context, standardID int64, code, name string) (int64, error) {
	existing, err := s.indicators.FindByStandardAndCode(ctx, standardID, code)
	switch {
	case err == nil:
		if existing.Name != name {
			if err := s.indicators.UpdateName(ctx, existing.ID, name); err != nil {
				return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rename indicator")
			}
		}
		return existing.ID, nil
	case errors.Is(err, sql.ErrNoRows):
		indicator := &models.Indicator{StandardID: standardID, Code: code, Name: name, Status: models.StatusNotStarted}
		if err := s.indicators.Create(ctx, indicator); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create indicator")
		}
		return indicator.ID, nil
	default:
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up indicator")
	}
}

func (s *SeedService) addChecklistItems(ctx context.Context, indicatorID int64, raw string) (int, error) {
	fragments := requirements.Split(raw)
	if len(fragments) == 0 {
		return 0, nil
	}
	existing, err := s.items.ListByIndicator(ctx, indicatorID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list checklist items")
	}
	seen := make(map[string]struct{}, len(existing)+len(fragments))
	for _, item := range existing {
		seen[requirements.Key(item.Text)] = struct{}{}
	}
	fresh := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		key := requirements.Key(fragment)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, fragment)
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	if err := s.items.CreateMany(ctx, indicatorID, fresh); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add checklist items")
	}
	return len(fresh), nil
}
