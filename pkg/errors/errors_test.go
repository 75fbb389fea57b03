package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCloneMatchesTemplate(t *testing.T) {
	err := Clone(ErrNotFound, "evidence not found")
	require.True(t, stderrors.Is(err, ErrNotFound))
	require.False(t, stderrors.Is(err, ErrConfig))
	require.Equal(t, "evidence not found", err.Error())
}

func TestWrapAsKeepsCause(t *testing.T) {
	cause := fmt.Errorf("drive: 500")
	err := WrapAs(ErrDelete, cause, "")
	require.True(t, stderrors.Is(err, ErrDelete))
	require.ErrorIs(t, err, cause)
	require.Equal(t, http.StatusInternalServerError, err.Status)
	require.Contains(t, err.Error(), "drive: 500")
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	require.Equal(t, ErrInternal.Code, appErr.Code)
	require.Nil(t, FromError(nil))

	wrapped := fmt.Errorf("outer: %w", Clone(ErrUpload, "drive rejected upload"))
	require.Equal(t, ErrUpload.Code, FromError(wrapped).Code)
}
