package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

// maxBatchSize caps the number of decisions accepted per batch request.
const maxBatchSize = 500

// ModerationDispatcher is the interface the handler uses to enqueue decisions.
type ModerationDispatcher interface {
	Enqueue(in ports.ModerationInput)
	EnqueueBatch(in []ports.ModerationInput)
}

// ModerationHandler accepts admin moderation decisions and processes them
// asynchronously.
type ModerationHandler struct {
	dispatcher ModerationDispatcher
	now        func() time.Time
}

func NewModerationHandler(dispatcher ModerationDispatcher) *ModerationHandler {
	return &ModerationHandler{dispatcher: dispatcher, now: time.Now}
}

// Moderate handles POST /v1/admin/moderation: enqueues one decision, returns 202.
//
// @Summary      Moderate an app
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      moderationRequest  true  "Moderation decision"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/moderation [post]
func (h *ModerationHandler) Moderate(c echo.Context, p domain.Principal) error {
	var req moderationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	h.dispatcher.Enqueue(h.toModerationInput(req, p))
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "decision accepted"})
}

// ModerateBatch handles POST /v1/admin/moderation/batch.
//
// @Summary      Moderate a batch of apps
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []moderationRequest  true  "Moderation decisions"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/moderation/batch [post]
func (h *ModerationHandler) ModerateBatch(c echo.Context, p domain.Principal) error {
	var reqs []moderationRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}
	if len(reqs) > maxBatchSize {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("batch cannot exceed %d decisions", maxBatchSize))
	}

	inputs := make([]ports.ModerationInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("decision[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, h.toModerationInput(req, p))
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "decisions accepted",
		Count:   len(inputs),
	})
}

func (h *ModerationHandler) toModerationInput(r moderationRequest, p domain.Principal) ports.ModerationInput {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = h.now()
	}
	return ports.ModerationInput{
		AppID:       r.AppID,
		Status:      r.Status,
		ModeratorID: p.ID,
		Notes:       r.Notes,
		Timestamp:   ts.UTC(),
	}
}
