package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

// sessionClaims is the JWT payload embedded at login time.
type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// SessionTokens issues and verifies HS256 session tokens.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a session token for user.
func (t *SessionTokens) Issue(user *domain.User) (string, *ports.SessionClaims, error) {
	now := t.now().UTC()
	claims := sessionClaims{
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return signed, toSessionClaims(&claims), nil
}

// Verify checks the signature, algorithm and expiry of token and returns its
// claims. Tokens missing any of sub, email, name, role or jti are rejected.
func (t *SessionTokens) Verify(token string) (*ports.SessionClaims, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}
	if claims.Subject == "" || claims.ID == "" || claims.Email == "" || claims.Name == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, errors.New("token missing required claims"))
	}
	return toSessionClaims(claims), nil
}

func toSessionClaims(c *sessionClaims) *ports.SessionClaims {
	out := &ports.SessionClaims{
		Subject:   c.Subject,
		Email:     c.Email,
		Name:      c.Name,
		Role:      c.Role,
		SessionID: c.ID,
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
