package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/appfounders/marketplace/internal/core/ports"
)

// bindAndValidate decodes the request body into req and runs the registered
// validator: malformed bodies are 400, rule violations 422.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

// listInput reads the category, search, page and limit query parameters.
// Out-of-range page and limit values are clamped by the service.
func listInput(c echo.Context) (ports.ListAppsInput, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return ports.ListAppsInput{}, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return ports.ListAppsInput{}, err
	}
	return ports.ListAppsInput{
		Category: strings.TrimSpace(c.QueryParam("category")),
		Search:   strings.TrimSpace(c.QueryParam("search")),
		Page:     page,
		Limit:    limit,
	}, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return n, nil
}
