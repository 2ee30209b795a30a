package handler

import "time"

type moderationRequest struct {
	AppID  string `json:"app_id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=approved rejected suspended"`
	Notes  string `json:"notes"  validate:"max=2000"`
	// Timestamp identifies the decision for deduplication. Defaults to the
	// time the request was received.
	Timestamp time.Time `json:"timestamp"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}
