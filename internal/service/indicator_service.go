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

type indicatorRepository interface {
	List(ctx context.Context, filter models.IndicatorFilter) ([]models.Indicator, error)
	FindByID(ctx context.Context, id int64) (*models.Indicator, error)
	Update(ctx context.Context, indicator *models.Indicator) error
}

type standardReader interface {
	List(ctx context.Context) ([]models.Standard, error)
	FindByID(ctx context.Context, id int64) (*models.Standard, error)
}

type checklistLister interface {
	ListByIndicator(ctx context.Context, indicatorID int64) ([]models.ChecklistItem, error)
}

type evidenceLister interface {
	ListByItems(ctx context.Context, itemIDs []int64) ([]models.EvidenceFile, error)
}

type commentLister interface {
	ListByItems(ctx context.Context, itemIDs []int64) ([]models.Comment, error)
}

// IndicatorService serves indicator listings and the full indicator workspace view.
type IndicatorService struct {
	indicators indicatorRepository
	standards  standardReader
	items      checklistLister
	evidence   evidenceLister
	comments   commentLister
	users      userLookup
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// IndicatorServiceDeps groups the collaborators of IndicatorService.
type IndicatorServiceDeps struct {
	Indicators indicatorRepository
	Standards  standardReader
	Items      checklistLister
	Evidence   evidenceLister
	Comments   commentLister
	Users      userLookup
	Cache      *CacheService
	Validator  *validator.Validate
	Logger     *zap.Logger
}

// NewIndicatorService constructs an indicator service.
func NewIndicatorService(deps IndicatorServiceDeps) *IndicatorService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	return &IndicatorService{
		indicators: deps.Indicators,
		standards:  deps.Standards,
		items:      deps.Items,
		evidence:   deps.Evidence,
		comments:   deps.Comments,
		users:      deps.Users,
		cache:      deps.Cache,
		validator:  deps.Validator,
		logger:     deps.Logger,
	}
}

// List returns indicators ordered by code with their manager and standard summary.
func (s *IndicatorService) List(ctx context.Context, filter models.IndicatorFilter) ([]models.IndicatorListItem, error) {
	indicators, err := s.indicators.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list indicators")
	}
	standards, err := s.standards.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list standards")
	}
	byID := make(map[int64]models.Standard, len(standards))
	for _, standard := range standards {
		byID[standard.ID] = standard
	}

	refs := make([]*int64, 0, len(indicators))
	for i := range indicators {
		refs = append(refs, indicators[i].ManagerID)
	}
	users, err := s.users.FindByIDs(ctx, collectIDs(refs...))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}

	result := make([]models.IndicatorListItem, 0, len(indicators))
	for _, indicator := range indicators {
		standard := byID[indicator.StandardID]
		result = append(result, models.IndicatorListItem{
			IndicatorWithManager: models.IndicatorWithManager{Indicator: indicator, Manager: userRef(users, indicator.ManagerID)},
			Standard:             models.StandardRef{StandardNo: standard.StandardNo, Title: standard.Title},
		})
	}
	return result, nil
}

// Get returns the indicator with its standard, manager and checklist, each item carrying
// its assignee, evidence and comments.
func (s *IndicatorService) Get(ctx context.Context, id int64) (*models.IndicatorDetail, error) {
	indicator, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	standard, err := s.standards.FindByID(ctx, indicator.StandardID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load standard")
	}
	items, err := s.items.ListByIndicator(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list checklist items")
	}

	itemIDs := make([]int64, 0, len(items))
	refs := []*int64{indicator.ManagerID}
	for i := range items {
		itemIDs = append(itemIDs, items[i].ID)
		refs = append(refs, items[i].AssigneeID)
	}
	evidence, err := s.evidence.ListByItems(ctx, itemIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list evidence")
	}
	comments, err := s.comments.ListByItems(ctx, itemIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comments")
	}
	users, err := s.users.FindByIDs(ctx, collectIDs(refs...))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}

	evidenceByItem := make(map[int64][]models.EvidenceFile)
	for _, file := range evidence {
		evidenceByItem[file.ChecklistItemID] = append(evidenceByItem[file.ChecklistItemID], file)
	}
	commentsByItem := make(map[int64][]models.Comment)
	for _, comment := range comments {
		commentsByItem[comment.ChecklistItemID] = append(commentsByItem[comment.ChecklistItemID], comment)
	}

	detail := &models.IndicatorDetail{
		Indicator: *indicator,
		Manager:   userRef(users, indicator.ManagerID),
		Standard:  standard,
		Checklist: make([]models.ChecklistItemDetail, 0, len(items)),
	}
	for _, item := range items {
		entry := models.ChecklistItemDetail{
			ChecklistItem: item,
			Assignee:      userRef(users, item.AssigneeID),
			Evidence:      evidenceByItem[item.ID],
			Comments:      commentsByItem[item.ID],
		}
		if entry.Evidence == nil {
			entry.Evidence = []models.EvidenceFile{}
		}
		if entry.Comments == nil {
			entry.Comments = []models.Comment{}
		}
		detail.Checklist = append(detail.Checklist, entry)
	}
	return detail, nil
}

// Update applies a partial update to an indicator.
func (s *IndicatorService) Update(ctx context.Context, id int64, req dto.UpdateIndicatorRequest) (*models.Indicator, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid indicator payload")
	}
	indicator, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name must not be empty")
		}
		indicator.Name = name
	}
	if req.Status != nil {
		indicator.Status = *req.Status
	}
	if req.Progress != nil {
		indicator.Progress = *req.Progress
	}
	if req.ManagerID.Set {
		if err := ensureUser(ctx, s.users, req.ManagerID.Value, "managerId"); err != nil {
			return nil, err
		}
		indicator.ManagerID = req.ManagerID.Value
	}
	if err := s.indicators.Update(ctx, indicator); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "indicator not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update indicator")
	}
	_ = s.cache.Invalidate(ctx, cacheKeyStandardsPrefix)
	return indicator, nil
}

func (s *IndicatorService) load(ctx context.Context, id int64) (*models.Indicator, error) {
	indicator, err := s.indicators.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "indicator not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load indicator")
	}
	return indicator, nil
}
