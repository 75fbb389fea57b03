package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-eval-api/internal/models"
)

const indicatorColumns = `id, standard_id, code, name, status, progress, manager_id, created_at, updated_at`

// IndicatorRepository provides database access for indicators.
type IndicatorRepository struct {
	db *sqlx.DB
}

// NewIndicatorRepository creates a new instance of IndicatorRepository.
func NewIndicatorRepository(db *sqlx.DB) *IndicatorRepository {
	return &IndicatorRepository{db: db}
}

// List returns indicators ordered by code then id, optionally narrowed to one standard.
func (r *IndicatorRepository) List(ctx context.Context, filter models.IndicatorFilter) ([]models.Indicator, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.StandardID > 0 {
		conditions = append(conditions, "standard_id = ?")
		args = append(args, filter.StandardID)
	}
	query := `SELECT ` + indicatorColumns + ` FROM indicators`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY code ASC, id ASC"

	var indicators []models.Indicator
	if err := r.db.SelectContext(ctx, &indicators, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list indicators: %w", err)
	}
	return indicators, nil
}

// ListProgress returns the slim progress projection of every indicator.
func (r *IndicatorRepository) ListProgress(ctx context.Context) ([]models.IndicatorProgress, error) {
	const query = `SELECT id, standard_id, status, progress FROM indicators ORDER BY code ASC, id ASC`
	var rows []models.IndicatorProgress
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list indicator progress: %w", err)
	}
	return rows, nil
}

// FindByID returns an indicator by identifier.
func (r *IndicatorRepository) FindByID(ctx context.Context, id int64) (*models.Indicator, error) {
	query := r.db.Rebind(`SELECT ` + indicatorColumns + ` FROM indicators WHERE id = ? LIMIT 1`)
	var indicator models.Indicator
	if err := r.db.GetContext(ctx, &indicator, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find indicator by id: %w", err)
	}
	return &indicator, nil
}

// FindByStandardAndCode returns the first indicator with the given code under a standard.
func (r *IndicatorRepository) FindByStandardAndCode(ctx context.Context, standardID int64, code string) (*models.Indicator, error) {
	query := r.db.Rebind(`SELECT ` + indicatorColumns + ` FROM indicators WHERE standard_id = ? AND code = ? ORDER BY id ASC LIMIT 1`)
	var indicator models.Indicator
	if err := r.db.GetContext(ctx, &indicator, query, standardID, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find indicator by code: %w", err)
	}
	return &indicator, nil
}

// Create inserts an indicator and populates its generated id.
func (r *IndicatorRepository) Create(ctx context.Context, indicator *models.Indicator) error {
	now := time.Now().UTC()
	if indicator.Status == "" {
		indicator.Status = models.StatusNotStarted
	}
	indicator.CreatedAt = now
	indicator.UpdatedAt = now
	query := r.db.Rebind(`INSERT INTO indicators (standard_id, code, name, status, progress, manager_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	if err := r.db.QueryRowxContext(ctx, query,
		indicator.StandardID, indicator.Code, indicator.Name, indicator.Status, indicator.Progress,
		indicator.ManagerID, indicator.CreatedAt, indicator.UpdatedAt,
	).Scan(&indicator.ID); err != nil {
		return fmt.Errorf("create indicator: %w", err)
	}
	return nil
}

// Update persists every mutable column of the indicator.
func (r *IndicatorRepository) Update(ctx context.Context, indicator *models.Indicator) error {
	indicator.UpdatedAt = time.Now().UTC()
	query := r.db.Rebind(`UPDATE indicators SET name = ?, status = ?, progress = ?, manager_id = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, indicator.Name, indicator.Status, indicator.Progress, indicator.ManagerID, indicator.UpdatedAt, indicator.ID)
	if err != nil {
		return fmt.Errorf("update indicator: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateName renames an indicator.
func (r *IndicatorRepository) UpdateName(ctx context.Context, id int64, name string) error {
	query := r.db.Rebind(`UPDATE indicators SET name = ?, updated_at = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, name, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update indicator name: %w", err)
	}
	return nil
}

// UpdateProgress stores a recomputed progress and status.
func (r *IndicatorRepository) UpdateProgress(ctx context.Context, id int64, progress int, status models.Status) error {
	query := r.db.Rebind(`UPDATE indicators SET progress = ?, status = ?, updated_at = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, progress, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update indicator progress: %w", err)
	}
	return nil
}
