package ports

import (
	"context"

	"github.com/appfounders/marketplace/internal/core/domain"
)

// PermissionHook checks resource-scoped rules beyond role rank.
// A nil error allows the request; any error denies it.
type PermissionHook interface {
	Check(ctx context.Context, p domain.Principal, resourceType string, action domain.Action, target domain.ResourceTarget) error
}

// PermissionRule decides access for one resource type.
type PermissionRule func(ctx context.Context, p domain.Principal, action domain.Action, target domain.ResourceTarget) error
