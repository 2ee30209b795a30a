package ports

import (
	"context"
	"time"

	"github.com/appfounders/marketplace/internal/core/domain"
)

// RegisterInput carries the signup form.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
}
