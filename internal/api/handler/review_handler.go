package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/appfounders/marketplace/internal/api/metrics"
	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

// ReviewHandler handles tester reviews.
type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Create handles POST /v1/apps/:id/reviews.
//
// @Summary      Review an approved app
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "App ID"
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  reviewResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/apps/{id}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context, p domain.Principal) error {
	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.service.Create(c.Request().Context(), p, ports.CreateReviewInput{
		AppID:   c.Param("id"),
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	metrics.ReviewsCreatedTotal.WithLabelValues(strconv.Itoa(review.Rating)).Inc()

	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

// List handles GET /v1/apps/:id/reviews.
//
// @Summary      List reviews of an app
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "App ID"
// @Success      200  {object}  listReviewsResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/apps/{id}/reviews [get]
func (h *ReviewHandler) List(c echo.Context, _ domain.Principal) error {
	reviews, err := h.service.ListByApp(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewListResponse(reviews))
}

// Delete handles DELETE /v1/reviews/:id.
//
// @Summary      Delete a review
// @Tags         reviews
// @Security     BearerAuth
// @Param        id   path  string  true  "Review ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context, _ domain.Principal) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
