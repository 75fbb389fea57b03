package models

import "time"

// ChecklistItem is an atomic requirement fragment of an indicator.
type ChecklistItem struct {
	ID          int64     `db:"id" json:"id"`
	IndicatorID int64     `db:"indicator_id" json:"indicatorId"`
	Text        string    `db:"text" json:"text"`
	Status      Status    `db:"status" json:"status"`
	AssigneeID  *int64    `db:"assignee_id" json:"assigneeId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ChecklistItemDetail expands a checklist item with its assignee, evidence and comments.
type ChecklistItemDetail struct {
	ChecklistItem
	Assignee *User          `json:"assignee"`
	Evidence []EvidenceFile `json:"evidence"`
	Comments []Comment      `json:"comments"`
}

// ChecklistItemUpdate carries a partial update; nil fields are left untouched.
type ChecklistItemUpdate struct {
	Status      *Status
	Text        *string
	AssigneeSet bool
	AssigneeID  *int64
}

// Comment is a free-form note left on a checklist item.
type Comment struct {
	ID              int64     `db:"id" json:"id"`
	ChecklistItemID int64     `db:"checklist_item_id" json:"checklistItemId"`
	AuthorName      string    `db:"author_name" json:"authorName"`
	Text            string    `db:"text" json:"text"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}
