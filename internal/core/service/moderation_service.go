package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, appID, status string, ts time.Time) (bool, error)
	Mark(ctx context.Context, appID, status string, ts time.Time) error
}

type moderationService struct {
	appRepo        ports.AppRepository
	moderationRepo ports.ModerationRepository
	dedup          DedupChecker
	log            zerolog.Logger
}

// NewModerationService returns a ModerationService implementation.
func NewModerationService(
	appRepo ports.AppRepository,
	moderationRepo ports.ModerationRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.ModerationService {
	return &moderationService{
		appRepo:        appRepo,
		moderationRepo: moderationRepo,
		dedup:          dedup,
		log:            log,
	}
}

// Process validates, deduplicates, and persists a single moderation decision.
func (s *moderationService) Process(ctx context.Context, in ports.ModerationInput) error {
	newStatus := domain.AppStatus(in.Status)

	isDup, err := s.dedup.IsDuplicate(ctx, in.AppID, in.Status, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("app_id", in.AppID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("app_id", in.AppID).Str("status", in.Status).Msg("duplicate decision skipped")
		return nil
	}

	app, err := s.appRepo.FindByID(ctx, in.AppID)
	if err != nil {
		return fmt.Errorf("moderate app: %w", err)
	}

	if !app.Status.CanTransitionTo(newStatus) {
		return fmt.Errorf("moderate app: %w (from %s to %s)", domain.ErrInvalidTransition, app.Status, newStatus)
	}

	// Marked before writing so a retry after a partial failure is skipped.
	if markErr := s.dedup.Mark(ctx, in.AppID, in.Status, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("app_id", in.AppID).Msg("failed to set dedup key")
	}

	event := &domain.ModerationEvent{
		AppID:       in.AppID,
		Status:      newStatus,
		ModeratorID: in.ModeratorID,
		Notes:       in.Notes,
		Timestamp:   in.Timestamp,
	}
	if err := s.moderationRepo.UpdateAppStatus(ctx, event); err != nil {
		return fmt.Errorf("moderate app: update status: %w", err)
	}

	if err := s.moderationRepo.InsertEvent(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("app_id", in.AppID).Msg("failed to insert moderation audit event")
	}

	s.log.Info().
		Str("app_id", in.AppID).
		Str("status", in.Status).
		Str("moderator_id", in.ModeratorID).
		Msg("moderation decision applied")

	return nil
}
