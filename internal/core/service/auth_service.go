package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	repo        ports.AuthRepository
	tokens      *SessionTokens
	revocations ports.RevocationStore
	logger      zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, tokens *SessionTokens, revocations ports.RevocationStore, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, revocations: revocations, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if email == "" || input.Password == "" || name == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}
	if role == domain.RoleAdmin {
		return nil, domain.ErrRoleNotAssignable
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", string(role)).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{Token: token, ExpiresAt: claims.ExpiresAt, User: user}, nil
}

// Logout revokes the session carried by token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return domain.ErrUnauthenticated
	}
	if err := s.revocations.Revoke(ctx, claims.SessionID, claims.ExpiresAt); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", claims.Subject).Msg("session revoked")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
