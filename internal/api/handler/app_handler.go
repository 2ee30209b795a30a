package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/appfounders/marketplace/internal/api/metrics"
	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

// AppHandler handles app submissions. Ownership has already been checked by
// the gate when these run.
type AppHandler struct {
	service ports.AppService
}

func NewAppHandler(service ports.AppService) *AppHandler {
	return &AppHandler{service: service}
}

// Submit handles POST /v1/apps.
//
// @Summary      Submit an app for review
// @Tags         apps
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitAppRequest  true  "App details"
// @Success      201   {object}  appResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/apps [post]
func (h *AppHandler) Submit(c echo.Context, p domain.Principal) error {
	var req submitAppRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	app, err := h.service.Submit(c.Request().Context(), p, toSubmitInput(req))
	if err != nil {
		return err
	}
	metrics.AppsSubmittedTotal.WithLabelValues(app.Category).Inc()

	return c.JSON(http.StatusCreated, toAppResponse(app))
}

// Get handles GET /v1/apps/:id.
//
// @Summary      Get an app
// @Tags         apps
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "App ID"
// @Success      200  {object}  appResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/apps/{id} [get]
func (h *AppHandler) Get(c echo.Context, _ domain.Principal) error {
	app, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAppResponse(app))
}

// Update handles PUT /v1/apps/:id. Editing a rejected app resubmits it.
//
// @Summary      Update an app
// @Tags         apps
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "App ID"
// @Param        body  body      updateAppRequest  true  "Fields to change"
// @Success      200   {object}  appResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/apps/{id} [put]
func (h *AppHandler) Update(c echo.Context, p domain.Principal) error {
	var req updateAppRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	app, err := h.service.Update(c.Request().Context(), p, c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAppResponse(app))
}

// Delete handles DELETE /v1/apps/:id.
//
// @Summary      Delete an app
// @Tags         apps
// @Security     BearerAuth
// @Param        id   path  string  true  "App ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/apps/{id} [delete]
func (h *AppHandler) Delete(c echo.Context, _ domain.Principal) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/apps. Only approved apps are listed; no session needed.
//
// @Summary      Browse published apps
// @Tags         apps
// @Produce      json
// @Param        category  query     string  false  "Category filter"
// @Param        search    query     string  false  "Name search"
// @Param        page      query     int     false  "Page (default 1)"
// @Param        limit     query     int     false  "Page size (default 20, max 100)"
// @Success      200       {object}  listAppsResponse
// @Failure      400       {object}  errorResponse
// @Router       /v1/apps [get]
func (h *AppHandler) List(c echo.Context) error {
	in, err := listInput(c)
	if err != nil {
		return err
	}

	res, err := h.service.ListPublished(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(res))
}

// ListMine handles GET /v1/me/apps.
//
// @Summary      List the caller's submissions
// @Tags         apps
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (default 1)"
// @Param        limit  query     int  false  "Page size (default 20, max 100)"
// @Success      200    {object}  listAppsResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/me/apps [get]
func (h *AppHandler) ListMine(c echo.Context, p domain.Principal) error {
	in, err := listInput(c)
	if err != nil {
		return err
	}

	res, err := h.service.ListByDeveloper(c.Request().Context(), p, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(res))
}
