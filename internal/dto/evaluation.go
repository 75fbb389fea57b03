package dto

import "github.com/noah-isme/school-eval-api/internal/models"

// UpdateStandardRequest patches a standard. An explicit null ownerId clears the owner.
type UpdateStandardRequest struct {
	Title   *string    `json:"title" validate:"omitempty,min=1"`
	OwnerID NullableID `json:"ownerId" swaggertype:"integer"`
}

// UpdateIndicatorRequest patches an indicator.
type UpdateIndicatorRequest struct {
	Name      *string        `json:"name" validate:"omitempty,min=1"`
	Status    *models.Status `json:"status" validate:"omitempty,oneof=NOT_STARTED IN_PROGRESS COMPLETED"`
	Progress  *int           `json:"progress" validate:"omitempty,min=0,max=100"`
	ManagerID NullableID     `json:"managerId" swaggertype:"integer"`
}

// UpdateChecklistItemRequest patches a checklist item.
type UpdateChecklistItemRequest struct {
	Text       *string        `json:"text" validate:"omitempty,min=1"`
	Status     *models.Status `json:"status" validate:"omitempty,oneof=NOT_STARTED IN_PROGRESS COMPLETED"`
	AssigneeID NullableID     `json:"assigneeId" swaggertype:"integer"`
}

// ChecklistItemUpdateResult returns the mutated item together with its recomputed indicator.
type ChecklistItemUpdateResult struct {
	Item      models.ChecklistItem `json:"item"`
	Indicator models.Indicator     `json:"indicator"`
}

// CreateCommentRequest posts a comment on a checklist item.
type CreateCommentRequest struct {
	Text       string `json:"text" validate:"required"`
	AuthorName string `json:"authorName"`
}

// EvidenceLinkRequest attaches an external link as evidence.
type EvidenceLinkRequest struct {
	URL        string `json:"url" validate:"required"`
	Filename   string `json:"filename"`
	UploadedBy string `json:"uploadedBy"`
}

// EvidenceUpload carries a received file to the lifecycle manager.
type EvidenceUpload struct {
	Filename   string
	MimeType   string
	Size       int64
	UploadedBy string
	BaseURL    string
}

// DeleteResult is returned by delete endpoints.
type DeleteResult struct {
	OK bool `json:"ok"`
}

// CreateUserRequest registers a user.
type CreateUserRequest struct {
	Name string          `json:"name" validate:"required"`
	Role models.UserRole `json:"role" validate:"omitempty,oneof=TEACHER ADMIN"`
}

// HealthResponse reports database connectivity.
type HealthResponse struct {
	OK bool   `json:"ok"`
	DB string `json:"db"`
}

// SeedRunResponse identifies a queued importer run.
type SeedRunResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
}
