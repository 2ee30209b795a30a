package ports

import (
	"context"

	"github.com/appfounders/marketplace/internal/core/domain"
)

// ListAppsFilter carries all query parameters for listing apps.
type ListAppsFilter struct {
	DeveloperID string           // empty = any developer
	Status      domain.AppStatus // empty = any status
	Category    string           // optional
	Search      string           // optional: partial match on name
	Page        int              // 1-based
	Limit       int              // capped at 100 by the service
}

// AppRepository defines persistence operations for apps.
type AppRepository interface {
	Create(ctx context.Context, app *domain.App) (*domain.App, error)
	FindByID(ctx context.Context, id string) (*domain.App, error)
	// UpdateMetadata writes the editable fields and updated_at only. Status and
	// history belong to moderation and resubmission.
	UpdateMetadata(ctx context.Context, app *domain.App) error
	// Resubmit moves a rejected app back to pending and appends entry. It
	// returns domain.ErrInvalidTransition when the app is no longer rejected.
	Resubmit(ctx context.Context, id string, entry domain.StatusHistoryEntry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListAppsFilter) ([]*domain.App, int64, error)
}
