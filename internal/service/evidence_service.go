package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-eval-api/internal/dto"
	"github.com/noah-isme/school-eval-api/internal/models"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
)

const (
	defaultAuthor    = "Teacher"
	defaultLinkLabel = "Evidence link"
)

type evidenceRepository interface {
	Create(ctx context.Context, evidence *models.EvidenceFile) error
	FindByID(ctx context.Context, id int64) (*models.EvidenceFile, error)
	Delete(ctx context.Context, id int64) error
}

type checklistItemFinder interface {
	FindByID(ctx context.Context, id int64) (*models.ChecklistItem, error)
}

type blobStore interface {
	Store(ctx context.Context, content io.ReadSeeker, filename, mimeType, baseURL string) (*StoredBlob, error)
	Delete(ctx context.Context, loc models.EvidenceLocation) error
}

// EvidenceService owns the evidence lifecycle: a blob is stored before its record exists
// and a record is removed only after its blob is gone.
type EvidenceService struct {
	evidence  evidenceRepository
	items     checklistItemFinder
	store     blobStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEvidenceService constructs the evidence lifecycle service.
func NewEvidenceService(evidence evidenceRepository, items checklistItemFinder, store blobStore, validate *validator.Validate, logger *zap.Logger) *EvidenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EvidenceService{evidence: evidence, items: items, store: store, validator: validate, logger: logger}
}

// AttachUpload stores the blob and records it against the checklist item.
func (s *EvidenceService) AttachUpload(ctx context.Context, itemID int64, content io.ReadSeeker, upload dto.EvidenceUpload) (*models.EvidenceFile, error) {
	if content == nil || upload.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "file is required")
	}
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	filename := strings.TrimSpace(upload.Filename)
	if filename == "" {
		filename = "file"
	}
	blob, err := s.store.Store(ctx, content, filename, upload.MimeType, upload.BaseURL)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, appErrors.WrapAs(appErrors.ErrUpload, err, "failed to upload evidence")
	}

	link := blob.Link
	record := &models.EvidenceFile{
		ChecklistItemID: item.ID,
		IndicatorID:     &item.IndicatorID,
		Filename:        filename,
		Path:            link,
		StorageKind:     blob.Kind,
		StorageKey:      &blob.Key,
		WebViewLink:     &link,
		UploadedBy:      uploaderOrDefault(upload.UploadedBy),
	}
	if blob.Kind == models.StorageRemote {
		key := blob.Key
		record.DriveFileID = &key
	}

	if err := s.evidence.Create(ctx, record); err != nil {
		if delErr := s.store.Delete(ctx, record.Location()); delErr != nil {
			s.logger.Error("failed to remove blob after record insert failed",
				zap.Int64("checklist_item_id", item.ID), zap.String("storage_key", blob.Key), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save evidence")
	}

	s.logger.Info("evidence attached",
		zap.Int64("evidence_id", record.ID), zap.Int64("checklist_item_id", item.ID), zap.String("storage", string(blob.Kind)))
	return record, nil
}

// AttachLink records an external URL as evidence. No blob is stored.
func (s *EvidenceService) AttachLink(ctx context.Context, itemID int64, req dto.EvidenceLinkRequest) (*models.EvidenceFile, error) {
	req.URL = strings.TrimSpace(req.URL)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "url is required")
	}
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = filenameFromURL(req.URL)
	}
	link := req.URL
	record := &models.EvidenceFile{
		ChecklistItemID: item.ID,
		IndicatorID:     &item.IndicatorID,
		Filename:        filename,
		Path:            link,
		StorageKind:     models.StorageExternalLink,
		WebViewLink:     &link,
		UploadedBy:      uploaderOrDefault(req.UploadedBy),
	}
	if err := s.evidence.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save evidence link")
	}
	return record, nil
}

// Detach deletes the blob behind an evidence record and then the record itself.
// When the blob cannot be deleted the record is kept and the failure is returned.
func (s *EvidenceService) Detach(ctx context.Context, id int64) error {
	record, err := s.evidence.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "evidence not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evidence")
	}

	if err := s.store.Delete(ctx, record.Location()); err != nil {
		s.logger.Warn("evidence blob delete failed, record kept", zap.Int64("evidence_id", id), zap.Error(err))
		return err
	}

	if err := s.evidence.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "evidence not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete evidence")
	}
	s.logger.Info("evidence detached", zap.Int64("evidence_id", id), zap.String("storage", string(record.StorageKind)))
	return nil
}

func (s *EvidenceService) loadItem(ctx context.Context, id int64) (*models.ChecklistItem, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "checklist item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load checklist item")
	}
	return item, nil
}

func uploaderOrDefault(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return defaultAuthor
}

// filenameFromURL uses the last path segment of raw, or a generic label when there is none.
func filenameFromURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return defaultLinkLabel
	}
	base := path.Base(parsed.Path)
	if base == "" || base == "." || base == "/" {
		return defaultLinkLabel
	}
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	return base
}
