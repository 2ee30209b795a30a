package ports

import (
	"context"
	"time"
)

// ModerationInput is the DTO passed from the transport layer to ModerationService.
type ModerationInput struct {
	AppID       string
	Status      string
	ModeratorID string
	Notes       string
	Timestamp   time.Time
}

// ModerationService processes admin moderation decisions.
type ModerationService interface {
	Process(ctx context.Context, input ModerationInput) error
}
