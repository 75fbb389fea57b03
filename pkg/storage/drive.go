package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrRemoteNotFound is returned when the remote object no longer exists.
var ErrRemoteNotFound = errors.New("remote object not found")

// RemoteFile identifies an object held by the remote store.
type RemoteFile struct {
	ID          string
	WebViewLink string
}

// Permission grants read access to a principal. Type is "user" or "anyone".
type Permission struct {
	Type         string
	Role         string
	EmailAddress string
}

// DriveAPI is the subset of the Drive v3 API used for evidence blobs.
type DriveAPI interface {
	CreateFile(ctx context.Context, name, parentID, mimeType string, content io.Reader) (*RemoteFile, error)
	CreatePermission(ctx context.Context, fileID string, perm Permission) error
	DeleteFile(ctx context.Context, fileID string) error
}

// DriveOptions configures uploads into the evidence folder.
type DriveOptions struct {
	FolderID       string
	ShareWithEmail string
	MakePublic     bool
}

// DriveStorage stores evidence blobs in a shared Drive folder.
type DriveStorage struct {
	api  DriveAPI
	opts DriveOptions
}

// NewDriveStorage wraps a Drive API client.
func NewDriveStorage(api DriveAPI, opts DriveOptions) *DriveStorage {
	return &DriveStorage{api: api, opts: opts}
}

// Upload creates the file in the configured folder and applies the configured sharing.
// When sharing fails the freshly created file is removed again.
func (d *DriveStorage) Upload(ctx context.Context, name, mimeType string, content io.Reader) (*RemoteFile, error) {
	if name == "" || content == nil {
		return nil, fmt.Errorf("missing content or filename for upload")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	file, err := d.api.CreateFile(ctx, name, d.opts.FolderID, mimeType, content)
	if err != nil {
		return nil, fmt.Errorf("drive create file: %w", err)
	}
	if file == nil || file.ID == "" {
		return nil, fmt.Errorf("drive upload returned no file id")
	}

	grants := make([]Permission, 0, 2)
	if d.opts.ShareWithEmail != "" {
		grants = append(grants, Permission{Type: "user", Role: "reader", EmailAddress: d.opts.ShareWithEmail})
	}
	if d.opts.MakePublic {
		grants = append(grants, Permission{Type: "anyone", Role: "reader"})
	}
	for _, perm := range grants {
		if err := d.api.CreatePermission(ctx, file.ID, perm); err != nil {
			if delErr := d.api.DeleteFile(ctx, file.ID); delErr != nil {
				return nil, fmt.Errorf("drive share %s failed (%v) and cleanup failed: %w", perm.Type, err, delErr)
			}
			return nil, fmt.Errorf("drive share %s: %w", perm.Type, err)
		}
	}
	return file, nil
}

// Delete removes the object. ErrRemoteNotFound signals it was already absent.
func (d *DriveStorage) Delete(ctx context.Context, fileID string) error {
	if strings.TrimSpace(fileID) == "" {
		return fmt.Errorf("drive delete: empty file id")
	}
	if err := d.api.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("drive delete %s: %w", fileID, err)
	}
	return nil
}

type googleDrive struct {
	svc *drive.Service
}

// NewGoogleDrive builds a Drive client authenticated as the given service account.
func NewGoogleDrive(ctx context.Context, clientEmail, privateKey string) (DriveAPI, error) {
	if clientEmail == "" || privateKey == "" {
		return nil, fmt.Errorf("drive credentials missing")
	}
	conf := &jwt.Config{
		Email:      clientEmail,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{drive.DriveFileScope},
		TokenURL:   google.JWTTokenURL,
	}
	svc, err := drive.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &googleDrive{svc: svc}, nil
}

func (g *googleDrive) CreateFile(ctx context.Context, name, parentID, mimeType string, content io.Reader) (*RemoteFile, error) {
	meta := &drive.File{Name: name, MimeType: mimeType}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}
	created, err := g.svc.Files.Create(meta).
		Media(content, googleapi.ContentType(mimeType)).
		Fields("id", "webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return &RemoteFile{ID: created.Id, WebViewLink: created.WebViewLink}, nil
}

func (g *googleDrive) CreatePermission(ctx context.Context, fileID string, perm Permission) error {
	_, err := g.svc.Permissions.Create(fileID, &drive.Permission{
		Type:         perm.Type,
		Role:         perm.Role,
		EmailAddress: perm.EmailAddress,
	}).SupportsAllDrives(true).Context(ctx).Do()
	return err
}

func (g *googleDrive) DeleteFile(ctx context.Context, fileID string) error {
	err := g.svc.Files.Delete(fileID).SupportsAllDrives(true).Context(ctx).Do()
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return ErrRemoteNotFound
	}
	return err
}
