package domain

import "time"

// ModerationEvent is an admin decision on an app submission.
type ModerationEvent struct {
	AppID       string
	Status      AppStatus
	ModeratorID string
	Notes       string
	Timestamp   time.Time
}
