package ports

import (
	"context"

	"github.com/appfounders/marketplace/internal/core/domain"
)

// ModerationRepository handles audit persistence and atomic status updates.
type ModerationRepository interface {
	// UpdateAppStatus atomically sets the app's new status and appends a
	// history entry.
	UpdateAppStatus(ctx context.Context, event *domain.ModerationEvent) error

	// InsertEvent persists a decision to the moderation audit collection.
	InsertEvent(ctx context.Context, event *domain.ModerationEvent) error
}
