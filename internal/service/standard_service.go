package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-eval-api/internal/dto"
	"github.com/noah-isme/school-eval-api/internal/models"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
)

type standardRepository interface {
	List(ctx context.Context) ([]models.Standard, error)
	FindByID(ctx context.Context, id int64) (*models.Standard, error)
	Update(ctx context.Context, standard *models.Standard) error
}

type indicatorReader interface {
	List(ctx context.Context, filter models.IndicatorFilter) ([]models.Indicator, error)
	ListProgress(ctx context.Context) ([]models.IndicatorProgress, error)
}

// StandardService serves the standards overview and detail views.
type StandardService struct {
	standards  standardRepository
	indicators indicatorReader
	users      userLookup
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewStandardService constructs a standard service.
func NewStandardService(standards standardRepository, indicators indicatorReader, users userLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StandardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StandardService{standards: standards, indicators: indicators, users: users, cache: cache, validator: validate, logger: logger}
}

// List returns every standard with its indicators' progress and derived stats.
// The boolean reports whether the result came from cache.
func (s *StandardService) List(ctx context.Context) ([]models.StandardSummary, bool, error) {
	var summaries []models.StandardSummary
	hit, err := s.cache.Fetch(ctx, cacheKeyStandards, &summaries, func(ctx context.Context) error {
		loaded, err := s.buildOverview(ctx)
		if err != nil {
			return err
		}
		summaries = loaded
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return summaries, hit, nil
}

func (s *StandardService) buildOverview(ctx context.Context) ([]models.StandardSummary, error) {
	standards, err := s.standards.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list standards")
	}
	progress, err := s.indicators.ListProgress(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list indicator progress")
	}

	byStandard := make(map[int64][]models.IndicatorProgress, len(standards))
	for _, row := range progress {
		byStandard[row.StandardID] = append(byStandard[row.StandardID], row)
	}

	summaries := make([]models.StandardSummary, 0, len(standards))
	for _, standard := range standards {
		indicators := byStandard[standard.ID]
		if indicators == nil {
			indicators = []models.IndicatorProgress{}
		}
		summaries = append(summaries, models.StandardSummary{
			Standard:   standard,
			Indicators: indicators,
			Stats:      StandardStats(indicators),
		})
	}
	return summaries, nil
}

// Get returns a standard with its owner and its indicators ordered by code.
func (s *StandardService) Get(ctx context.Context, id int64) (*models.StandardDetail, error) {
	standard, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	indicators, err := s.indicators.List(ctx, models.IndicatorFilter{StandardID: id})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list indicators")
	}

	refs := []*int64{standard.OwnerID}
	for i := range indicators {
		refs = append(refs, indicators[i].ManagerID)
	}
	users, err := s.users.FindByIDs(ctx, collectIDs(refs...))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}

	detail := &models.StandardDetail{
		Standard:   *standard,
		Owner:      userRef(users, standard.OwnerID),
		Indicators: make([]models.IndicatorWithManager, 0, len(indicators)),
	}
	for _, indicator := range indicators {
		detail.Indicators = append(detail.Indicators, models.IndicatorWithManager{
			Indicator: indicator,
			Manager:   userRef(users, indicator.ManagerID),
		})
	}
	return detail, nil
}

// Update changes a standard's title and owner.
func (s *StandardService) Update(ctx context.Context, id int64, req dto.UpdateStandardRequest) (*models.Standard, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid standard payload")
	}
	standard, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "title must not be empty")
		}
		standard.Title = title
	}
	if req.OwnerID.Set {
		if err := ensureUser(ctx, s.users, req.OwnerID.Value, "ownerId"); err != nil {
			return nil, err
		}
		standard.OwnerID = req.OwnerID.Value
	}
	if err := s.standards.Update(ctx, standard); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "standard not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update standard")
	}
	_ = s.cache.Invalidate(ctx, cacheKeyStandardsPrefix)
	return standard, nil
}

func (s *StandardService) load(ctx context.Context, id int64) (*models.Standard, error) {
	standard, err := s.standards.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "standard not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load standard")
	}
	return standard, nil
}
