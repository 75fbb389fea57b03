package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-eval-api/internal/models"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
	"github.com/noah-isme/school-eval-api/pkg/storage"
)

func TestEvidenceStoreLocalNaming(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	store := NewEvidenceStore(nil, local, nil, nil)
	store.now = func() time.Time { return time.Unix(0, 1700) }

	blob, err := store.Store(context.Background(), bytes.NewReader([]byte("x")), "rapport (final).pdf", "", "https://eval.example.org/")
	require.NoError(t, err)
	assert.Equal(t, models.StorageLocal, blob.Kind)
	assert.Equal(t, "1700-rapport__final_.pdf", blob.Key)
	assert.Equal(t, "https://eval.example.org/uploads/1700-rapport__final_.pdf", blob.Link)
	assert.False(t, store.RemoteConfigured())
}

func TestEvidenceStoreDeleteNoops(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	store := NewEvidenceStore(nil, local, nil, nil)
	ctx := context.Background()

	assert.NoError(t, store.Delete(ctx, models.ExternalLinkLocation{URL: "https://example.org"}))
	assert.NoError(t, store.Delete(ctx, models.LocalLocation{Link: "https://example.org/files/a.pdf"}))
	assert.NoError(t, store.Delete(ctx, models.LocalLocation{Name: "never-written.pdf"}))
}

func TestEvidenceStoreWithoutAnyBackend(t *testing.T) {
	store := NewEvidenceStore(&fakeRemote{uploadErr: errors.New("down")}, nil, nil, nil)

	_, err := store.Store(context.Background(), bytes.NewReader([]byte("x")), "a.pdf", "", "http://localhost")
	assert.ErrorIs(t, err, appErrors.ErrUpload)
}
