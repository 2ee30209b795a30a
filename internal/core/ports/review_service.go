package ports

import (
	"context"

	"github.com/appfounders/marketplace/internal/core/domain"
)

// CreateReviewInput carries a tester's review.
type CreateReviewInput struct {
	AppID   string
	Rating  int
	Comment string
}

type ReviewService interface {
	Create(ctx context.Context, p domain.Principal, input CreateReviewInput) (*domain.Review, error)
	ListByApp(ctx context.Context, appID string) ([]*domain.Review, error)
	Delete(ctx context.Context, id string) error
}
