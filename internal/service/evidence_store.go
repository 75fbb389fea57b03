package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-eval-api/internal/models"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
	"github.com/noah-isme/school-eval-api/pkg/storage"
)

type remoteBlobStore interface {
	Upload(ctx context.Context, name, mimeType string, content io.Reader) (*storage.RemoteFile, error)
	Delete(ctx context.Context, fileID string) error
}

type localBlobStore interface {
	SaveStream(name string, r io.Reader) (string, error)
	Delete(name string) error
}

// StoredBlob describes where a blob landed.
type StoredBlob struct {
	Kind models.StorageKind
	Key  string
	Link string
	// RemoteLink is the view link reported by the remote backend, empty for local blobs.
	RemoteLink string
}

// EvidenceStore persists evidence blobs remote-first and falls back to the local uploads directory.
type EvidenceStore struct {
	remote  remoteBlobStore
	local   localBlobStore
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewEvidenceStore builds the adapter. remote is nil when no credentials are configured.
func NewEvidenceStore(remote remoteBlobStore, local localBlobStore, metrics *MetricsService, logger *zap.Logger) *EvidenceStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvidenceStore{remote: remote, local: local, metrics: metrics, logger: logger, now: time.Now}
}

// RemoteConfigured reports whether a remote backend is available.
func (s *EvidenceStore) RemoteConfigured() bool {
	return s != nil && s.remote != nil
}

// Store writes the blob. baseURL is the scheme and host the local link is built from.
func (s *EvidenceStore) Store(ctx context.Context, content io.ReadSeeker, filename, mimeType, baseURL string) (*StoredBlob, error) {
	if s.remote != nil {
		file, err := s.remote.Upload(ctx, filename, mimeType, content)
		if err == nil {
			link := file.WebViewLink
			if link == "" {
				link = fmt.Sprintf("https://drive.google.com/file/d/%s/view", file.ID)
			}
			s.metrics.RecordEvidenceStored(string(models.StorageRemote))
			return &StoredBlob{Kind: models.StorageRemote, Key: file.ID, Link: link, RemoteLink: file.WebViewLink}, nil
		}
		s.logger.Warn("remote upload failed, falling back to local storage", zap.String("filename", filename), zap.Error(err))
		s.metrics.RecordEvidenceFallback()
		if _, seekErr := content.Seek(0, io.SeekStart); seekErr != nil {
			return nil, appErrors.WrapAs(appErrors.ErrUpload, seekErr, "failed to rewind upload for local fallback")
		}
	}
	if s.local == nil {
		return nil, appErrors.Clone(appErrors.ErrUpload, "no evidence storage available")
	}

	name, err := s.local.SaveStream(storage.StoredName(filename, s.now()), content)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrUpload, err, "failed to store evidence file")
	}
	s.metrics.RecordEvidenceStored(string(models.StorageLocal))
	return &StoredBlob{Kind: models.StorageLocal, Key: name, Link: storage.PublicLink(baseURL, name)}, nil
}

// Delete removes the blob behind loc. Remote deletion requires a configured remote backend.
func (s *EvidenceStore) Delete(ctx context.Context, loc models.EvidenceLocation) error {
	switch l := loc.(type) {
	case models.RemoteLocation:
		if s.remote == nil {
			return appErrors.Clone(appErrors.ErrConfig, "remote storage credentials are not configured")
		}
		if err := s.remote.Delete(ctx, l.ObjectID); err != nil {
			if errors.Is(err, storage.ErrRemoteNotFound) {
				s.logger.Info("remote evidence already absent", zap.String("object_id", l.ObjectID))
				return nil
			}
			s.metrics.RecordEvidenceDeleteFailure(string(models.StorageRemote))
			return appErrors.WrapAs(appErrors.ErrDelete, err, "failed to delete remote evidence")
		}
		return nil
	case models.LocalLocation:
		name := l.Name
		if name == "" {
			var ok bool
			if name, ok = storage.UploadNameFromLink(l.Link); !ok {
				return nil
			}
		}
		if s.local == nil {
			return appErrors.Clone(appErrors.ErrConfig, "local uploads directory is not configured")
		}
		if err := s.local.Delete(name); err != nil {
			s.metrics.RecordEvidenceDeleteFailure(string(models.StorageLocal))
			return appErrors.WrapAs(appErrors.ErrDelete, err, "failed to delete local evidence")
		}
		return nil
	case models.ExternalLinkLocation:
		return nil
	default:
		return appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("unknown evidence location %T", loc))
	}
}
