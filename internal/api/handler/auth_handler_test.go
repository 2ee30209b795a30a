package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/appfounders/marketplace/internal/api/middleware"
	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutFn   func(ctx context.Context, token string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

// newTestEcho returns an Echo instance configured like the real router.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Email != "alice@example.com" || in.Role != "developer" || in.Name != "Alice" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", Email: in.Email, Name: in.Name, Role: domain.RoleDeveloper, PasswordHash: "hash"}, nil
		},
	}
	h := NewAuthHandler(stub, true)

	body := `{"email":"alice@example.com","password":"s3cret-pass","name":"Alice","role":"developer"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", body), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatal("password hash leaked into the response")
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "u1" || user["role"] != "developer" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
}

func TestAuthHandler_Register_ValidationFails(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, true)

	cases := []string{
		`{"email":"not-an-email","password":"s3cret-pass","name":"A","role":"tester"}`,
		`{"email":"a@example.com","password":"short","name":"A","role":"tester"}`,
		`{"email":"a@example.com","password":"s3cret-pass","name":"A","role":"admin"}`,
		`{"email":"a@example.com","password":"s3cret-pass","role":"tester"}`,
	}
	for _, body := range cases {
		c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", body), httptest.NewRecorder())
		if code := httpCode(t, h.Register(c)); code != http.StatusUnprocessableEntity {
			t.Errorf("%s: expected 422, got %d", body, code)
		}
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, true)

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", "not-json"), httptest.NewRecorder())
	if code := httpCode(t, h.Register(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Register_UserExistsPropagates(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, true)

	body := `{"email":"bob@example.com","password":"s3cret-pass","name":"Bob","role":"tester"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", body), httptest.NewRecorder())
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	e := newTestEcho()
	expires := time.Now().Add(time.Hour)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "alice@example.com" || password != "s3cret-pass" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{
				Token:     "token123",
				ExpiresAt: expires,
				User:      &domain.User{ID: "u1", Email: email, Role: domain.RoleTester},
			}, nil
		},
	}
	h := NewAuthHandler(stub, true)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"s3cret-pass"}`), rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != middleware.SessionCookie || ck.Value != "token123" || !ck.HttpOnly || !ck.Secure {
		t.Errorf("unexpected cookie: %+v", ck)
	}
}

func TestAuthHandler_Login_InvalidCredentialsPropagates(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, true)

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"bad"}`), httptest.NewRecorder())
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	e := newTestEcho()
	var revoked string
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
	}
	h := NewAuthHandler(stub, false)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "tok"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c, domain.Principal{ID: "u1", Role: domain.RoleTester}); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if revoked != "tok" {
		t.Errorf("expected cookie token to be revoked, got %q", revoked)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected expired session cookie, got %+v", cookies)
	}
}

func TestAuthHandler_Me_WithoutPrincipal(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, true)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), httptest.NewRecorder())
	if err := h.Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, true)
	p := domain.Principal{ID: "u1", Email: "u1@example.com", Name: "U", Role: domain.RoleDeveloper}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), rec)
	c.Set(middleware.PrincipalKey, p)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got domain.Principal
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got != p {
		t.Errorf("got %+v, want %+v", got, p)
	}
}
