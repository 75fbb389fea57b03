package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-eval-api/internal/models"
)

const standardColumns = `id, standard_no, title, owner_id, created_at, updated_at`

// StandardRepository provides database access for standards.
type StandardRepository struct {
	db *sqlx.DB
}

// NewStandardRepository creates a new instance of StandardRepository.
func NewStandardRepository(db *sqlx.DB) *StandardRepository {
	return &StandardRepository{db: db}
}

// List returns all standards ordered by their number.
func (r *StandardRepository) List(ctx context.Context) ([]models.Standard, error) {
	query := `SELECT ` + standardColumns + ` FROM standards ORDER BY standard_no ASC`
	var standards []models.Standard
	if err := r.db.SelectContext(ctx, &standards, query); err != nil {
		return nil, fmt.Errorf("list standards: %w", err)
	}
	return standards, nil
}

// FindByID returns a standard by identifier.
func (r *StandardRepository) FindByID(ctx context.Context, id int64) (*models.Standard, error) {
	query := r.db.Rebind(`SELECT ` + standardColumns + ` FROM standards WHERE id = ? LIMIT 1`)
	var standard models.Standard
	if err := r.db.GetContext(ctx, &standard, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find standard by id: %w", err)
	}
	return &standard, nil
}

// ListByNumbers returns the standards whose numbers are in nos.
func (r *StandardRepository) ListByNumbers(ctx context.Context, nos []int) ([]models.Standard, error) {
	if len(nos) == 0 {
		return []models.Standard{}, nil
	}
	query, args, err := sqlx.In(`SELECT `+standardColumns+` FROM standards WHERE standard_no IN (?) ORDER BY standard_no ASC`, nos)
	if err != nil {
		return nil, fmt.Errorf("build list standards by number: %w", err)
	}
	var standards []models.Standard
	if err := r.db.SelectContext(ctx, &standards, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list standards by number: %w", err)
	}
	return standards, nil
}

// Update persists title and owner.
func (r *StandardRepository) Update(ctx context.Context, standard *models.Standard) error {
	standard.UpdatedAt = time.Now().UTC()
	query := r.db.Rebind(`UPDATE standards SET title = ?, owner_id = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, standard.Title, standard.OwnerID, standard.UpdatedAt, standard.ID)
	if err != nil {
		return fmt.Errorf("update standard: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpsertByNumber inserts a standard or updates the title of the existing one with the same number.
func (r *StandardRepository) UpsertByNumber(ctx context.Context, standardNo int, title string) error {
	now := time.Now().UTC()
	query := r.db.Rebind(`INSERT INTO standards (standard_no, title, created_at, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (standard_no) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`)
	if _, err := r.db.ExecContext(ctx, query, standardNo, title, now, now); err != nil {
		return fmt.Errorf("upsert standard %d: %w", standardNo, err)
	}
	return nil
}
