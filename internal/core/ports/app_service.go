package ports

import (
	"context"

	"github.com/appfounders/marketplace/internal/core/domain"
)

// SubmitAppInput carries a new app submission.
type SubmitAppInput struct {
	Name        string
	Description string
	Category    string
	Platform    string
	PriceCents  int64
}

// UpdateAppInput carries editable app metadata. Nil fields are left unchanged.
type UpdateAppInput struct {
	Name        *string
	Description *string
	Category    *string
	Platform    *string
	PriceCents  *int64
}

// ListAppsInput carries the list endpoint parameters.
type ListAppsInput struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// ListAppsResult is returned by the list operations.
type ListAppsResult struct {
	Items      []*domain.App
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AppService defines use-case operations for apps. Access checks have already
// run in the gate; the principal is passed for ownership attribution only.
type AppService interface {
	Submit(ctx context.Context, p domain.Principal, input SubmitAppInput) (*domain.App, error)
	Get(ctx context.Context, id string) (*domain.App, error)
	Update(ctx context.Context, p domain.Principal, id string, input UpdateAppInput) (*domain.App, error)
	Delete(ctx context.Context, id string) error
	ListPublished(ctx context.Context, input ListAppsInput) (*ListAppsResult, error)
	ListByDeveloper(ctx context.Context, p domain.Principal, input ListAppsInput) (*ListAppsResult, error)
}
