package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/appfounders/marketplace/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "Not authenticated"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.DenyResource("You can only modify apps you own"), http.StatusForbidden, "You can only modify apps you own"},
		{fmt.Errorf("load: %w", domain.ErrAppNotFound), http.StatusNotFound, "load: app not found"},
		{domain.ErrReviewExists, http.StatusConflict, "review already submitted for this app"},
		{domain.ErrAppNotReviewable, http.StatusConflict, "app is not open for reviews"},
		{fmt.Errorf("moderate app: %w", domain.ErrInvalidTransition), http.StatusUnprocessableEntity, "moderate app: invalid status transition"},
		{domain.ErrRoleNotAssignable, http.StatusBadRequest, "role cannot be self-assigned"},
		{echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{errors.New("mongo: connection pool closed"), http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		h(tc.err, c)

		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%v: decode: %v", tc.err, err)
		}
		if rec.Code != tc.code || body.Error != tc.msg {
			t.Errorf("%v: got %d %q, want %d %q", tc.err, rec.Code, body.Error, tc.code, tc.msg)
		}
	}
}
