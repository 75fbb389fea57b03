package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "", nil)
	ctx := context.Background()

	var dest map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "standards:list", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "standards:list", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "standards:*"))
	assert.NoError(t, repo.Close())
}

func TestCacheRepositoryKeyIsNamespacedOnce(t *testing.T) {
	repo := NewCacheRepository(nil, "eval", nil)
	assert.Equal(t, "eval:standards:list", repo.Key("standards:list"))
	assert.Equal(t, "eval:standards:list", repo.Key("eval:standards:list"))
}
