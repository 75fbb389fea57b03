package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-eval-api/internal/models"
)

func TestEvidenceRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEvidenceRepository(db)

	key := "1700000000-plan.pdf"
	indicatorID := int64(3)
	mock.ExpectQuery("INSERT INTO evidence_files .* RETURNING id").
		WithArgs(int64(9), &indicatorID, "plan.pdf", "http://localhost:3000/uploads/"+key, models.StorageLocal, &key, nil, nil, "Teacher", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	evidence := &models.EvidenceFile{
		ChecklistItemID: 9,
		IndicatorID:     &indicatorID,
		Filename:        "plan.pdf",
		Path:            "http://localhost:3000/uploads/" + key,
		StorageKind:     models.StorageLocal,
		StorageKey:      &key,
		UploadedBy:      "Teacher",
	}
	require.NoError(t, repo.Create(context.Background(), evidence))
	assert.Equal(t, int64(12), evidence.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvidenceRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEvidenceRepository(db)

	cols := []string{"id", "checklist_item_id", "indicator_id", "filename", "path", "storage_kind", "storage_key", "drive_file_id", "web_view_link", "uploaded_by", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM evidence_files WHERE id = ? LIMIT 1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(4, 9, 3, "plan.pdf", "https://drive/view", "REMOTE", "abc", "abc", "https://drive/view", "Teacher", time.Now()))

	evidence, err := repo.FindByID(context.Background(), 4)
	require.NoError(t, err)
	loc, ok := evidence.Location().(models.RemoteLocation)
	require.True(t, ok)
	assert.Equal(t, "abc", loc.ObjectID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvidenceRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEvidenceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM evidence_files WHERE id = ?")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 4), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCommentRepository(db)

	mock.ExpectQuery("INSERT INTO comments .* RETURNING id").
		WithArgs(int64(9), "Teacher", "Looks good", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	comment := &models.Comment{ChecklistItemID: 9, AuthorName: "Teacher", Text: "Looks good"}
	require.NoError(t, repo.Create(context.Background(), comment))
	assert.Equal(t, int64(2), comment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
