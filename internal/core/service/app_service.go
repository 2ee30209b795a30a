package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type AppService struct {
	repo   ports.AppRepository
	logger zerolog.Logger
}

func NewAppService(repo ports.AppRepository, logger zerolog.Logger) *AppService {
	return &AppService{repo: repo, logger: logger}
}

// Submit stores a new app owned by p in pending status.
func (s *AppService) Submit(ctx context.Context, p domain.Principal, input ports.SubmitAppInput) (*domain.App, error) {
	now := time.Now().UTC()
	app := &domain.App{
		DeveloperID: p.ID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Category:    strings.ToLower(strings.TrimSpace(input.Category)),
		Platform:    input.Platform,
		PriceCents:  input.PriceCents,
		Status:      domain.AppStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: domain.AppStatusPending, Timestamp: now, ActorID: p.ID},
		},
	}

	created, err := s.repo.Create(ctx, app)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to submit app")
		return nil, err
	}

	s.logger.Info().Str("app_id", created.ID).Str("developer_id", p.ID).Msg("app submitted")
	return created, nil
}

func (s *AppService) Get(ctx context.Context, id string) (*domain.App, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies metadata edits. Editing a rejected app resubmits it for review.
func (s *AppService) Update(ctx context.Context, p domain.Principal, id string, input ports.UpdateAppInput) (*domain.App, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		app.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		app.Description = *input.Description
	}
	if input.Category != nil {
		app.Category = strings.ToLower(strings.TrimSpace(*input.Category))
	}
	if input.Platform != nil {
		app.Platform = *input.Platform
	}
	if input.PriceCents != nil {
		app.PriceCents = *input.PriceCents
	}

	now := time.Now().UTC()
	app.UpdatedAt = now
	if err := s.repo.UpdateMetadata(ctx, app); err != nil {
		return nil, err
	}

	if app.Status == domain.AppStatusRejected {
		err := s.repo.Resubmit(ctx, id, domain.StatusHistoryEntry{
			Status:    domain.AppStatusPending,
			Timestamp: now,
			ActorID:   p.ID,
			Notes:     "resubmitted",
		})
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			s.logger.Info().Str("app_id", id).Msg("app moderated during edit, resubmission skipped")
		case err != nil:
			return nil, err
		}
	}

	return s.repo.FindByID(ctx, id)
}

func (s *AppService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("app_id", id).Msg("app deleted")
	return nil
}

// ListPublished returns approved apps visible to everyone.
func (s *AppService) ListPublished(ctx context.Context, input ports.ListAppsInput) (*ports.ListAppsResult, error) {
	return s.list(ctx, ports.ListAppsFilter{
		Status:   domain.AppStatusApproved,
		Category: strings.ToLower(strings.TrimSpace(input.Category)),
		Search:   strings.TrimSpace(input.Search),
		Page:     input.Page,
		Limit:    input.Limit,
	})
}

// ListByDeveloper returns every submission owned by p regardless of status.
func (s *AppService) ListByDeveloper(ctx context.Context, p domain.Principal, input ports.ListAppsInput) (*ports.ListAppsResult, error) {
	return s.list(ctx, ports.ListAppsFilter{
		DeveloperID: p.ID,
		Category:    strings.ToLower(strings.TrimSpace(input.Category)),
		Search:      strings.TrimSpace(input.Search),
		Page:        input.Page,
		Limit:       input.Limit,
	})
}

func (s *AppService) list(ctx context.Context, filter ports.ListAppsFilter) (*ports.ListAppsResult, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListAppsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
