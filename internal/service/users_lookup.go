package service

import (
	"context"
	"fmt"

	"github.com/noah-isme/school-eval-api/internal/models"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
)

type userLookup interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error)
}

func collectIDs(ids ...*int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == nil {
			continue
		}
		if _, ok := seen[*id]; ok {
			continue
		}
		seen[*id] = struct{}{}
		out = append(out, *id)
	}
	return out
}

func userRef(users map[int64]models.User, id *int64) *models.User {
	if id == nil {
		return nil
	}
	user, ok := users[*id]
	if !ok {
		return nil
	}
	return &user
}

// ensureUser rejects a reference to a user that does not exist. A nil id clears the reference.
func ensureUser(ctx context.Context, users userLookup, id *int64, field string) error {
	if id == nil {
		return nil
	}
	found, err := users.FindByIDs(ctx, []int64{*id})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if _, ok := found[*id]; !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s does not reference a user", field))
	}
	return nil
}
