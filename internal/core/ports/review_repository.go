package ports

import (
	"context"

	"github.com/appfounders/marketplace/internal/core/domain"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	ListByApp(ctx context.Context, appID string) ([]*domain.Review, error)
	Delete(ctx context.Context, id string) error
}
