package domain

import "time"

// AppStatus represents the moderation state of a submitted app.
type AppStatus string

const (
	AppStatusPending   AppStatus = "pending"
	AppStatusApproved  AppStatus = "approved"
	AppStatusRejected  AppStatus = "rejected"
	AppStatusSuspended AppStatus = "suspended"
)

// validTransitions defines the allowed moderation transitions.
var validTransitions = map[AppStatus][]AppStatus{
	AppStatusPending:   {AppStatusApproved, AppStatusRejected},
	AppStatusApproved:  {AppStatusSuspended},
	AppStatusSuspended: {AppStatusApproved},
	AppStatusRejected:  {AppStatusPending},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s AppStatus) CanTransitionTo(next AppStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusHistoryEntry records a single moderation transition on an app.
type StatusHistoryEntry struct {
	Status    AppStatus `json:"status" bson:"status"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	ActorID   string    `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

// App is a developer submission offered to beta testers.
type App struct {
	ID            string               `json:"id" bson:"_id,omitempty"`
	DeveloperID   string               `json:"developer_id" bson:"developer_id"`
	Name          string               `json:"name" bson:"name"`
	Description   string               `json:"description" bson:"description"`
	Category      string               `json:"category" bson:"category"`
	Platform      string               `json:"platform" bson:"platform"`
	PriceCents    int64                `json:"price_cents" bson:"price_cents"`
	Status        AppStatus            `json:"status" bson:"status"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
	StatusHistory []StatusHistoryEntry `json:"status_history" bson:"status_history"`
}

// OwnedBy reports whether userID submitted the app.
func (a *App) OwnedBy(userID string) bool {
	return userID != "" && a.DeveloperID == userID
}
