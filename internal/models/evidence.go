package models

import "time"

// StorageKind tags where the bytes behind an evidence record live.
type StorageKind string

const (
	StorageRemote       StorageKind = "REMOTE"
	StorageLocal        StorageKind = "LOCAL"
	StorageExternalLink StorageKind = "EXTERNAL_LINK"
)

// EvidenceFile is a file or link attached to a checklist item.
type EvidenceFile struct {
	ID              int64       `db:"id" json:"id"`
	ChecklistItemID int64       `db:"checklist_item_id" json:"checklistItemId"`
	IndicatorID     *int64      `db:"indicator_id" json:"indicatorId"`
	Filename        string      `db:"filename" json:"filename"`
	Path            string      `db:"path" json:"path"`
	StorageKind     StorageKind `db:"storage_kind" json:"storageKind"`
	StorageKey      *string     `db:"storage_key" json:"-"`
	DriveFileID     *string     `db:"drive_file_id" json:"driveFileId"`
	WebViewLink     *string     `db:"web_view_link" json:"webViewLink"`
	UploadedBy      string      `db:"uploaded_by" json:"uploadedBy"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
}

// EvidenceLocation is one of RemoteLocation, LocalLocation or ExternalLinkLocation.
type EvidenceLocation interface {
	Kind() StorageKind
}

// RemoteLocation is a blob held by the remote object store.
type RemoteLocation struct {
	ObjectID string
	Link     string
}

// LocalLocation is a blob held in the managed uploads directory.
// Name may be empty for rows written before the key was recorded; Link is then used to resolve it.
type LocalLocation struct {
	Name string
	Link string
}

// ExternalLinkLocation points at content this service does not own.
type ExternalLinkLocation struct {
	URL string
}

func (RemoteLocation) Kind() StorageKind       { return StorageRemote }
func (LocalLocation) Kind() StorageKind        { return StorageLocal }
func (ExternalLinkLocation) Kind() StorageKind { return StorageExternalLink }

// Location decodes the stored tag into its variant.
func (e *EvidenceFile) Location() EvidenceLocation {
	switch e.StorageKind {
	case StorageRemote:
		id := deref(e.StorageKey)
		if id == "" {
			id = deref(e.DriveFileID)
		}
		return RemoteLocation{ObjectID: id, Link: e.Path}
	case StorageLocal:
		return LocalLocation{Name: deref(e.StorageKey), Link: e.Path}
	default:
		return ExternalLinkLocation{URL: e.Path}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
