package models

import "time"

// Indicator is a measurable sub-criterion of a standard.
type Indicator struct {
	ID         int64     `db:"id" json:"id"`
	StandardID int64     `db:"standard_id" json:"standardId"`
	Code       string    `db:"code" json:"code"`
	Name       string    `db:"name" json:"name"`
	Status     Status    `db:"status" json:"status"`
	Progress   int       `db:"progress" json:"progress"`
	ManagerID  *int64    `db:"manager_id" json:"managerId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// IndicatorWithManager attaches the resolved manager.
type IndicatorWithManager struct {
	Indicator
	Manager *User `json:"manager"`
}

// StandardRef is the standard summary embedded in indicator listings.
type StandardRef struct {
	StandardNo int    `db:"standard_no" json:"standardNo"`
	Title      string `db:"title" json:"title"`
}

// IndicatorListItem is one row of the indicator listing.
type IndicatorListItem struct {
	IndicatorWithManager
	Standard StandardRef `json:"standard"`
}

// IndicatorDetail expands an indicator with its standard and full checklist.
type IndicatorDetail struct {
	Indicator
	Manager   *User                 `json:"manager"`
	Standard  *Standard             `json:"standard"`
	Checklist []ChecklistItemDetail `json:"checklist"`
}

// IndicatorFilter narrows indicator listings.
type IndicatorFilter struct {
	StandardID int64
}

// IndicatorUpdate carries a partial update; nil fields are left untouched.
type IndicatorUpdate struct {
	Status     *Status
	Progress   *int
	Name       *string
	ManagerSet bool
	ManagerID  *int64
}
