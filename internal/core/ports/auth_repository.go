package ports

import (
	"context"

	"github.com/appfounders/marketplace/internal/core/domain"
)

// AuthRepository defines the interface for user persistence.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// IdentityStore resolves a session subject to the current user record.
// It returns domain.ErrUserNotFound when the user no longer exists.
type IdentityStore interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
