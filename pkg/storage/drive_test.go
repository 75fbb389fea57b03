package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeDriveAPI struct {
	files       map[string]string
	permissions []Permission
	createErr   error
	permErr     error
	deleteErr   error
	emptyID     bool
	lastParent  string
	lastMime    string
}

func newFakeDriveAPI() *fakeDriveAPI {
	return &fakeDriveAPI{files: map[string]string{}}
}

func (f *fakeDriveAPI) CreateFile(_ context.Context, name, parentID, mimeType string, content io.Reader) (*RemoteFile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	f.lastParent = parentID
	f.lastMime = mimeType
	if f.emptyID {
		return &RemoteFile{}, nil
	}
	id := "file-" + name
	f.files[id] = string(data)
	return &RemoteFile{ID: id, WebViewLink: "https://drive.test/" + id}, nil
}

func (f *fakeDriveAPI) CreatePermission(_ context.Context, _ string, perm Permission) error {
	if f.permErr != nil {
		return f.permErr
	}
	f.permissions = append(f.permissions, perm)
	return nil
}

func (f *fakeDriveAPI) DeleteFile(_ context.Context, fileID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.files[fileID]; !ok {
		return ErrRemoteNotFound
	}
	delete(f.files, fileID)
	return nil
}

func TestDriveStorageUploadSharesFile(t *testing.T) {
	api := newFakeDriveAPI()
	store := NewDriveStorage(api, DriveOptions{FolderID: "folder-1", ShareWithEmail: "head@school.test", MakePublic: true})

	file, err := store.Upload(context.Background(), "plan.pdf", "", strings.NewReader("pdf"))
	require.NoError(t, err)
	require.Equal(t, "file-plan.pdf", file.ID)
	require.Equal(t, "folder-1", api.lastParent)
	require.Equal(t, "application/octet-stream", api.lastMime)
	require.Equal(t, []Permission{
		{Type: "user", Role: "reader", EmailAddress: "head@school.test"},
		{Type: "anyone", Role: "reader"},
	}, api.permissions)
}

func TestDriveStorageUploadWithoutID(t *testing.T) {
	api := newFakeDriveAPI()
	api.emptyID = true
	store := NewDriveStorage(api, DriveOptions{FolderID: "folder-1"})

	_, err := store.Upload(context.Background(), "plan.pdf", "application/pdf", strings.NewReader("pdf"))
	require.Error(t, err)
}

func TestDriveStorageUploadRemovesFileWhenSharingFails(t *testing.T) {
	api := newFakeDriveAPI()
	api.permErr = errors.New("forbidden")
	store := NewDriveStorage(api, DriveOptions{MakePublic: true})

	_, err := store.Upload(context.Background(), "plan.pdf", "application/pdf", strings.NewReader("pdf"))
	require.Error(t, err)
	require.Empty(t, api.files)
}

func TestDriveStorageDelete(t *testing.T) {
	api := newFakeDriveAPI()
	api.files["file-1"] = "x"
	store := NewDriveStorage(api, DriveOptions{})

	require.NoError(t, store.Delete(context.Background(), "file-1"))
	err := store.Delete(context.Background(), "file-1")
	require.ErrorIs(t, err, ErrRemoteNotFound)
	require.Error(t, store.Delete(context.Background(), " "))
}
