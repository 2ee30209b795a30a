package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

type stubAuthRepo struct {
	users map[string]*domain.User
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "u-" + user.Email
	}
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

type stubRevocations struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Time)}
}

func (s *stubRevocations) Revoke(_ context.Context, sessionID string, until time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.revoked[sessionID] = until
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	_, ok := s.revoked[sessionID]
	return ok, s.err
}

func newAuthSvc(repo *stubAuthRepo, rev *stubRevocations) *AuthService {
	return NewAuthService(repo, NewSessionTokens("secret", time.Hour), rev, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo, newStubRevocations())

	user, err := svc.Register(context.Background(), registerInput("Alice@Example.com", "pass1234", "developer"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if user.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleDeveloper {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo(), newStubRevocations())

	if _, err := svc.Register(context.Background(), registerInput("", "pass", "tester")); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput("bob@example.com", "pass", "wrong")); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole for bad role, got %v", err)
	}
}

func TestAuthService_Register_AdminNotSelfAssignable(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo(), newStubRevocations())

	if _, err := svc.Register(context.Background(), registerInput("eve@example.com", "pass1234", "admin")); err != domain.ErrRoleNotAssignable {
		t.Fatalf("expected ErrRoleNotAssignable, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo(), newStubRevocations())

	_, _ = svc.Register(context.Background(), registerInput("bob@example.com", "pass1234", "tester"))
	if _, err := svc.Register(context.Background(), registerInput("bob@example.com", "other123", "tester")); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo(), newStubRevocations())

	if _, err := svc.Register(context.Background(), registerInput("carol@example.com", "s3cret99", "tester")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "carol@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User == nil || res.User.Name != "carol" {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	claims, err := svc.tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Role != string(domain.RoleTester) || claims.Subject != res.User.ID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.Equal(res.ExpiresAt) {
		t.Fatalf("expiry mismatch: %v vs %v", claims.ExpiresAt, res.ExpiresAt)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo(), newStubRevocations())

	_, _ = svc.Register(context.Background(), registerInput("dave@example.com", "goodpass", "tester"))
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo(), newStubRevocations())

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Logout_RevokesSession(t *testing.T) {
	rev := newStubRevocations()
	svc := newAuthSvc(newStubAuthRepo(), rev)

	_, _ = svc.Register(context.Background(), registerInput("fran@example.com", "pass1234", "tester"))
	res, err := svc.Login(context.Background(), "fran@example.com", "pass1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), res.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	claims, _ := svc.tokens.Verify(res.Token)
	until, ok := rev.revoked[claims.SessionID]
	if !ok {
		t.Fatalf("expected session %s to be revoked", claims.SessionID)
	}
	if !until.Equal(claims.ExpiresAt) {
		t.Fatalf("expected revocation until %v, got %v", claims.ExpiresAt, until)
	}
}

func TestAuthService_Logout_InvalidToken(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo(), newStubRevocations())

	if err := svc.Logout(context.Background(), "garbage"); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func registerInput(email, password, role string) ports.RegisterInput {
	name := email
	if i := strings.Index(email, "@"); i > 0 {
		name = email[:i]
	}
	return ports.RegisterInput{Email: email, Password: password, Name: name, Role: role}
}
