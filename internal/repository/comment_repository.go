package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-eval-api/internal/models"
)

// CommentRepository provides database access for checklist comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new instance of CommentRepository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a comment and populates its id.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.CreatedAt = time.Now().UTC()
	query := r.db.Rebind(`INSERT INTO comments (checklist_item_id, author_name, text, created_at) VALUES (?, ?, ?, ?) RETURNING id`)
	if err := r.db.QueryRowxContext(ctx, query, comment.ChecklistItemID, comment.AuthorName, comment.Text, comment.CreatedAt).Scan(&comment.ID); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// ListByItems returns comments for the given items, oldest first.
func (r *CommentRepository) ListByItems(ctx context.Context, itemIDs []int64) ([]models.Comment, error) {
	if len(itemIDs) == 0 {
		return []models.Comment{}, nil
	}
	query, args, err := sqlx.In(`SELECT id, checklist_item_id, author_name, text, created_at FROM comments WHERE checklist_item_id IN (?) ORDER BY created_at ASC, id ASC`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("build list comments: %w", err)
	}
	var comments []models.Comment
	if err := r.db.SelectContext(ctx, &comments, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
