package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

type ReviewService struct {
	apps    ports.AppRepository
	reviews ports.ReviewRepository
	logger  zerolog.Logger
}

func NewReviewService(apps ports.AppRepository, reviews ports.ReviewRepository, logger zerolog.Logger) *ReviewService {
	return &ReviewService{apps: apps, reviews: reviews, logger: logger}
}

// Create records p's review of an approved app. One review per tester per app.
func (s *ReviewService) Create(ctx context.Context, p domain.Principal, input ports.CreateReviewInput) (*domain.Review, error) {
	app, err := s.apps.FindByID(ctx, input.AppID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.AppStatusApproved {
		return nil, domain.ErrAppNotReviewable
	}

	created, err := s.reviews.Create(ctx, &domain.Review{
		AppID:      app.ID,
		TesterID:   p.ID,
		TesterName: p.Name,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("review_id", created.ID).Str("app_id", app.ID).Str("tester_id", p.ID).Msg("review created")
	return created, nil
}

func (s *ReviewService) ListByApp(ctx context.Context, appID string) ([]*domain.Review, error) {
	if _, err := s.apps.FindByID(ctx, appID); err != nil {
		return nil, err
	}
	return s.reviews.ListByApp(ctx, appID)
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	return s.reviews.Delete(ctx, id)
}
