package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-eval-api/internal/dto"
	"github.com/noah-isme/school-eval-api/internal/models"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
)

type memoryChecklist struct {
	items      map[int64]models.ChecklistItem
	indicators map[int64]models.Indicator
	comments   []models.Comment
	users      map[int64]models.User
}

func newMemoryChecklist() *memoryChecklist {
	m := &memoryChecklist{
		items:      make(map[int64]models.ChecklistItem),
		indicators: map[int64]models.Indicator{1: {ID: 1, StandardID: 1, Code: "1.1", Status: models.StatusNotStarted}},
		users:      map[int64]models.User{5: {ID: 5, Name: "Sokha", Role: models.RoleTeacher}},
	}
	for i := int64(1); i <= 4; i++ {
		m.items[i] = models.ChecklistItem{ID: i, IndicatorID: 1, Text: "item", Status: models.StatusNotStarted}
	}
	return m
}

func (m *memoryChecklist) FindByID(ctx context.Context, id int64) (*models.ChecklistItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &item, nil
}

func (m *memoryChecklist) ListByIndicator(ctx context.Context, indicatorID int64) ([]models.ChecklistItem, error) {
	var out []models.ChecklistItem
	for i := int64(1); i <= int64(len(m.items)); i++ {
		if item, ok := m.items[i]; ok && item.IndicatorID == indicatorID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memoryChecklist) Update(ctx context.Context, item *models.ChecklistItem) error {
	m.items[item.ID] = *item
	return nil
}

type memoryIndicatorProgress struct{ *memoryChecklist }

func (m memoryIndicatorProgress) FindByID(ctx context.Context, id int64) (*models.Indicator, error) {
	indicator, ok := m.indicators[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &indicator, nil
}

func (m memoryIndicatorProgress) UpdateProgress(ctx context.Context, id int64, progress int, status models.Status) error {
	indicator := m.indicators[id]
	indicator.Progress = progress
	indicator.Status = status
	m.indicators[id] = indicator
	return nil
}

type memoryComments struct{ *memoryChecklist }

func (m memoryComments) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = int64(len(m.comments) + 1)
	m.comments = append(m.comments, *comment)
	return nil
}

type memoryUsers map[int64]models.User

func (m memoryUsers) FindByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error) {
	out := make(map[int64]models.User)
	for _, id := range ids {
		if user, ok := m[id]; ok {
			out[id] = user
		}
	}
	return out, nil
}

func newChecklistFixture() (*ChecklistService, *memoryChecklist) {
	store := newMemoryChecklist()
	svc := NewChecklistService(store, memoryIndicatorProgress{store}, memoryComments{store}, memoryUsers(store.users), nil, nil, zap.NewNop())
	return svc, store
}

func statusPtr(s models.Status) *models.Status { return &s }

func TestChecklistUpdateRecomputesIndicator(t *testing.T) {
	svc, store := newChecklistFixture()
	ctx := context.Background()

	_, err := svc.Update(ctx, 1, dto.UpdateChecklistItemRequest{Status: statusPtr(models.StatusCompleted)})
	require.NoError(t, err)
	result, err := svc.Update(ctx, 2, dto.UpdateChecklistItemRequest{Status: statusPtr(models.StatusCompleted)})
	require.NoError(t, err)

	assert.Equal(t, 50, result.Indicator.Progress)
	assert.Equal(t, models.StatusInProgress, result.Indicator.Status)
	assert.Equal(t, 50, store.indicators[1].Progress)

	for _, id := range []int64{3, 4} {
		result, err = svc.Update(ctx, id, dto.UpdateChecklistItemRequest{Status: statusPtr(models.StatusCompleted)})
		require.NoError(t, err)
	}
	assert.Equal(t, 100, result.Indicator.Progress)
	assert.Equal(t, models.StatusCompleted, result.Indicator.Status)
}

func TestChecklistUpdateResetReturnsToNotStarted(t *testing.T) {
	svc, store := newChecklistFixture()
	ctx := context.Background()

	_, err := svc.Update(ctx, 1, dto.UpdateChecklistItemRequest{Status: statusPtr(models.StatusCompleted)})
	require.NoError(t, err)
	_, err = svc.Update(ctx, 1, dto.UpdateChecklistItemRequest{Status: statusPtr(models.StatusNotStarted)})
	require.NoError(t, err)

	assert.Equal(t, 0, store.indicators[1].Progress)
	assert.Equal(t, models.StatusNotStarted, store.indicators[1].Status)
}

func TestChecklistUpdateAssignee(t *testing.T) {
	svc, store := newChecklistFixture()
	ctx := context.Background()

	id := int64(5)
	_, err := svc.Update(ctx, 1, dto.UpdateChecklistItemRequest{AssigneeID: dto.NullableID{Set: true, Value: &id}})
	require.NoError(t, err)
	require.NotNil(t, store.items[1].AssigneeID)
	assert.Equal(t, int64(5), *store.items[1].AssigneeID)

	_, err = svc.Update(ctx, 1, dto.UpdateChecklistItemRequest{AssigneeID: dto.NullableID{Set: true}})
	require.NoError(t, err)
	assert.Nil(t, store.items[1].AssigneeID)

	unknown := int64(99)
	_, err = svc.Update(ctx, 1, dto.UpdateChecklistItemRequest{AssigneeID: dto.NullableID{Set: true, Value: &unknown}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestChecklistUpdateValidation(t *testing.T) {
	svc, _ := newChecklistFixture()
	ctx := context.Background()

	_, err := svc.Update(ctx, 1, dto.UpdateChecklistItemRequest{Status: statusPtr("DONE")})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Update(ctx, 42, dto.UpdateChecklistItemRequest{})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestChecklistAddComment(t *testing.T) {
	svc, store := newChecklistFixture()
	ctx := context.Background()

	comment, err := svc.AddComment(ctx, 1, dto.CreateCommentRequest{Text: "  Uploaded the plan  "})
	require.NoError(t, err)
	assert.Equal(t, "Teacher", comment.AuthorName)
	assert.Equal(t, "Uploaded the plan", comment.Text)
	assert.Len(t, store.comments, 1)

	_, err = svc.AddComment(ctx, 1, dto.CreateCommentRequest{Text: " "})
	assert.ErrorIs(t, err, appErrors.ErrBadRequest)

	_, err = svc.AddComment(ctx, 77, dto.CreateCommentRequest{Text: "hello"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
