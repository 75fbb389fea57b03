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

type checklistRepository interface {
	FindByID(ctx context.Context, id int64) (*models.ChecklistItem, error)
	ListByIndicator(ctx context.Context, indicatorID int64) ([]models.ChecklistItem, error)
	Update(ctx context.Context, item *models.ChecklistItem) error
}

type indicatorProgressStore interface {
	FindByID(ctx context.Context, id int64) (*models.Indicator, error)
	UpdateProgress(ctx context.Context, id int64, progress int, status models.Status) error
}

type commentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
}

// ChecklistService mutates checklist items and keeps the parent indicator's progress in sync.
type ChecklistService struct {
	items      checklistRepository
	indicators indicatorProgressStore
	comments   commentRepository
	users      userLookup
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewChecklistService constructs a checklist service.
func NewChecklistService(items checklistRepository, indicators indicatorProgressStore, comments commentRepository, users userLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ChecklistService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ChecklistService{items: items, indicators: indicators, comments: comments, users: users, cache: cache, validator: validate, logger: logger}
}

// Update applies a partial update and recomputes the parent indicator.
func (s *ChecklistService) Update(ctx context.Context, id int64, req dto.UpdateChecklistItemRequest) (*dto.ChecklistItemUpdateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid checklist item payload")
	}
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "checklist item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load checklist item")
	}

	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "text must not be empty")
		}
		item.Text = text
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.AssigneeID.Set {
		if err := ensureUser(ctx, s.users, req.AssigneeID.Value, "assigneeId"); err != nil {
			return nil, err
		}
		item.AssigneeID = req.AssigneeID.Value
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update checklist item")
	}

	indicator, err := s.Recompute(ctx, item.IndicatorID)
	if err != nil {
		return nil, err
	}
	return &dto.ChecklistItemUpdateResult{Item: *item, Indicator: *indicator}, nil
}

// Recompute derives the indicator's progress and status from its items and persists them.
func (s *ChecklistService) Recompute(ctx context.Context, indicatorID int64) (*models.Indicator, error) {
	indicator, err := s.indicators.FindByID(ctx, indicatorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "indicator not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load indicator")
	}
	items, err := s.items.ListByIndicator(ctx, indicatorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list checklist items")
	}

	progress, status := IndicatorProgress(items)
	if err := s.indicators.UpdateProgress(ctx, indicatorID, progress, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update indicator progress")
	}
	indicator.Progress = progress
	indicator.Status = status
	_ = s.cache.Invalidate(ctx, cacheKeyStandardsPrefix)

	s.logger.Debug("indicator progress recomputed",
		zap.Int64("indicator_id", indicatorID), zap.Int("progress", progress), zap.String("status", string(status)))
	return indicator, nil
}

// AddComment posts a comment on a checklist item.
func (s *ChecklistService) AddComment(ctx context.Context, itemID int64, req dto.CreateCommentRequest) (*models.Comment, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "text is required")
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "checklist item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load checklist item")
	}

	author := strings.TrimSpace(req.AuthorName)
	if author == "" {
		author = defaultAuthor
	}
	comment := &models.Comment{ChecklistItemID: itemID, AuthorName: author, Text: req.Text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save comment")
	}
	return comment, nil
}
