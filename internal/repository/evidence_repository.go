package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-eval-api/internal/models"
)

const evidenceColumns = `id, checklist_item_id, indicator_id, filename, path, storage_kind, storage_key, drive_file_id, web_view_link, uploaded_by, created_at`

// EvidenceRepository provides database access for evidence records.
type EvidenceRepository struct {
	db *sqlx.DB
}

// NewEvidenceRepository creates a new instance of EvidenceRepository.
func NewEvidenceRepository(db *sqlx.DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// Create inserts an evidence record and populates its id.
func (r *EvidenceRepository) Create(ctx context.Context, evidence *models.EvidenceFile) error {
	evidence.CreatedAt = time.Now().UTC()
	query := r.db.Rebind(`INSERT INTO evidence_files (checklist_item_id, indicator_id, filename, path, storage_kind, storage_key, drive_file_id, web_view_link, uploaded_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	if err := r.db.QueryRowxContext(ctx, query,
		evidence.ChecklistItemID, evidence.IndicatorID, evidence.Filename, evidence.Path, evidence.StorageKind,
		evidence.StorageKey, evidence.DriveFileID, evidence.WebViewLink, evidence.UploadedBy, evidence.CreatedAt,
	).Scan(&evidence.ID); err != nil {
		return fmt.Errorf("create evidence: %w", err)
	}
	return nil
}

// FindByID returns an evidence record by identifier.
func (r *EvidenceRepository) FindByID(ctx context.Context, id int64) (*models.EvidenceFile, error) {
	query := r.db.Rebind(`SELECT ` + evidenceColumns + ` FROM evidence_files WHERE id = ? LIMIT 1`)
	var evidence models.EvidenceFile
	if err := r.db.GetContext(ctx, &evidence, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find evidence by id: %w", err)
	}
	return &evidence, nil
}

// Delete removes an evidence record.
func (r *EvidenceRepository) Delete(ctx context.Context, id int64) error {
	query := r.db.Rebind(`DELETE FROM evidence_files WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete evidence: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByItems returns evidence for the given items, newest first.
func (r *EvidenceRepository) ListByItems(ctx context.Context, itemIDs []int64) ([]models.EvidenceFile, error) {
	if len(itemIDs) == 0 {
		return []models.EvidenceFile{}, nil
	}
	query, args, err := sqlx.In(`SELECT `+evidenceColumns+` FROM evidence_files WHERE checklist_item_id IN (?) ORDER BY created_at DESC, id DESC`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("build list evidence: %w", err)
	}
	var evidence []models.EvidenceFile
	if err := r.db.SelectContext(ctx, &evidence, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	return evidence, nil
}
