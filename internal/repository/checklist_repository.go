package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-eval-api/internal/models"
)

const checklistColumns = `id, indicator_id, text, status, assignee_id, created_at, updated_at`

// ChecklistRepository provides database access for checklist items.
type ChecklistRepository struct {
	db *sqlx.DB
}

// NewChecklistRepository creates a new instance of ChecklistRepository.
func NewChecklistRepository(db *sqlx.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// FindByID returns a checklist item by identifier.
func (r *ChecklistRepository) FindByID(ctx context.Context, id int64) (*models.ChecklistItem, error) {
	query := r.db.Rebind(`SELECT ` + checklistColumns + ` FROM checklist_items WHERE id = ? LIMIT 1`)
	var item models.ChecklistItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find checklist item by id: %w", err)
	}
	return &item, nil
}

// ListByIndicator returns the indicator's items ordered by id.
func (r *ChecklistRepository) ListByIndicator(ctx context.Context, indicatorID int64) ([]models.ChecklistItem, error) {
	query := r.db.Rebind(`SELECT ` + checklistColumns + ` FROM checklist_items WHERE indicator_id = ? ORDER BY id ASC`)
	var items []models.ChecklistItem
	if err := r.db.SelectContext(ctx, &items, query, indicatorID); err != nil {
		return nil, fmt.Errorf("list checklist items: %w", err)
	}
	return items, nil
}

// CountByIndicator returns completed and total item counts keyed by indicator id.
func (r *ChecklistRepository) CountByIndicator(ctx context.Context) (map[int64][2]int, error) {
	const query = `SELECT indicator_id, SUM(CASE WHEN status = 'COMPLETED' THEN 1 ELSE 0 END) AS completed, COUNT(*) AS total
FROM checklist_items GROUP BY indicator_id`
	var rows []struct {
		IndicatorID int64 `db:"indicator_id"`
		Completed   int   `db:"completed"`
		Total       int   `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count checklist items: %w", err)
	}
	counts := make(map[int64][2]int, len(rows))
	for _, row := range rows {
		counts[row.IndicatorID] = [2]int{row.Completed, row.Total}
	}
	return counts, nil
}

// Update persists text, status and assignee.
func (r *ChecklistRepository) Update(ctx context.Context, item *models.ChecklistItem) error {
	item.UpdatedAt = time.Now().UTC()
	query := r.db.Rebind(`UPDATE checklist_items SET text = ?, status = ?, assignee_id = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, item.Text, item.Status, item.AssigneeID, item.UpdatedAt, item.ID)
	if err != nil {
		return fmt.Errorf("update checklist item: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateMany inserts NOT_STARTED items for the indicator in one transaction.
func (r *ChecklistRepository) CreateMany(ctx context.Context, indicatorID int64, texts []string) error {
	if len(texts) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checklist insert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	query := tx.Rebind(`INSERT INTO checklist_items (indicator_id, text, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`)
	for _, text := range texts {
		if _, err = tx.ExecContext(ctx, query, indicatorID, text, models.StatusNotStarted, now, now); err != nil {
			return fmt.Errorf("insert checklist item: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit checklist insert: %w", err)
	}
	return nil
}
