package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type submitAppRequest struct {
	Name        string `json:"name"        validate:"required,max=120"`
	Description string `json:"description" validate:"required,max=5000"`
	Category    string `json:"category"    validate:"required,max=50"`
	Platform    string `json:"platform"    validate:"required,oneof=ios android web desktop"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
}

// updateAppRequest only changes the fields present in the body.
type updateAppRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Category    *string `json:"category"    validate:"omitempty,max=50"`
	Platform    *string `json:"platform"    validate:"omitempty,oneof=ios android web desktop"`
	PriceCents  *int64  `json:"price_cents" validate:"omitempty,gte=0"`
}

type createReviewRequest struct {
	Rating  int    `json:"rating"  validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// --- Response types ---
// Kept separate from domain types so the JSON contract does not follow
// storage changes.

type appLinks struct {
	Self    string `json:"self"`
	Reviews string `json:"reviews"`
}

type statusHistoryItemResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

type appResponse struct {
	ID            string                      `json:"id"`
	DeveloperID   string                      `json:"developer_id"`
	Name          string                      `json:"name"`
	Description   string                      `json:"description"`
	Category      string                      `json:"category"`
	Platform      string                      `json:"platform"`
	PriceCents    int64                       `json:"price_cents"`
	Status        string                      `json:"status"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	StatusHistory []statusHistoryItemResponse `json:"status_history,omitempty"`
	Links         appLinks                    `json:"_links"`
}

// appSummaryResponse is the list item. It omits status_history.
type appSummaryResponse struct {
	ID          string    `json:"id"`
	DeveloperID string    `json:"developer_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Platform    string    `json:"platform"`
	PriceCents  int64     `json:"price_cents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Links       appLinks  `json:"_links"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listAppsResponse struct {
	Data       []appSummaryResponse `json:"data"`
	Pagination paginationResponse   `json:"pagination"`
}

type reviewResponse struct {
	ID         string    `json:"id"`
	AppID      string    `json:"app_id"`
	TesterID   string    `json:"tester_id"`
	TesterName string    `json:"tester_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type listReviewsResponse struct {
	Data []reviewResponse `json:"data"`
}
