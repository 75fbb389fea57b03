package models

import "time"

// Standard is a top-level evaluation category identified by its number.
type Standard struct {
	ID         int64     `db:"id" json:"id"`
	StandardNo int       `db:"standard_no" json:"standardNo"`
	Title      string    `db:"title" json:"title"`
	OwnerID    *int64    `db:"owner_id" json:"ownerId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// StandardStats summarises indicator completion for a standard.
type StandardStats struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	AvgProgress int `json:"avgProgress"`
}

// IndicatorProgress is the slim indicator projection used for standard stats.
type IndicatorProgress struct {
	ID         int64  `db:"id" json:"id"`
	StandardID int64  `db:"standard_id" json:"-"`
	Status     Status `db:"status" json:"status"`
	Progress   int    `db:"progress" json:"progress"`
}

// StandardSummary is a list entry carrying its indicators' progress and derived stats.
type StandardSummary struct {
	Standard
	Indicators []IndicatorProgress `json:"indicators"`
	Stats      StandardStats       `json:"stats"`
}

// StandardDetail expands a standard with its owner and indicators.
type StandardDetail struct {
	Standard
	Owner      *User                  `json:"owner"`
	Indicators []IndicatorWithManager `json:"indicators"`
}
