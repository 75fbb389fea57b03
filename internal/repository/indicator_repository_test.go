package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-eval-api/internal/models"
)

var indicatorCols = []string{"id", "standard_id", "code", "name", "status", "progress", "manager_id", "created_at", "updated_at"}

func TestIndicatorRepositoryListFiltersByStandard(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIndicatorRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM indicators WHERE standard_id = ? ORDER BY code ASC, id ASC")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(indicatorCols).AddRow(1, 2, "1.1", "Plan", "IN_PROGRESS", 50, nil, now, now))

	indicators, err := repo.List(context.Background(), models.IndicatorFilter{StandardID: 2})
	require.NoError(t, err)
	require.Len(t, indicators, 1)
	assert.Equal(t, models.StatusInProgress, indicators[0].Status)
	assert.Equal(t, 50, indicators[0].Progress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIndicatorRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIndicatorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM indicators ORDER BY code ASC, id ASC")).
		WillReturnRows(sqlmock.NewRows(indicatorCols))

	indicators, err := repo.List(context.Background(), models.IndicatorFilter{})
	require.NoError(t, err)
	assert.Empty(t, indicators)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIndicatorRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIndicatorRepository(db)

	mock.ExpectQuery("INSERT INTO indicators .* RETURNING id").
		WithArgs(int64(3), "3.2", "Budget", models.StatusNotStarted, 0, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))

	indicator := &models.Indicator{StandardID: 3, Code: "3.2", Name: "Budget"}
	require.NoError(t, repo.Create(context.Background(), indicator))
	assert.Equal(t, int64(41), indicator.ID)
	assert.Equal(t, models.StatusNotStarted, indicator.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIndicatorRepositoryUpdateProgress(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIndicatorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE indicators SET progress = ?, status = ?, updated_at = ? WHERE id = ?")).
		WithArgs(75, models.StatusInProgress, sqlmock.AnyArg(), int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateProgress(context.Background(), 8, 75, models.StatusInProgress))
	assert.NoError(t, mock.ExpectationsWereMet())
}
