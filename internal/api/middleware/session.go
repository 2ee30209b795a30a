package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/appfounders/marketplace/internal/api/metrics"
	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

const (
	// SessionCookie carries the signed session token issued at login.
	SessionCookie = "appfounders.session-token"
	// DevSessionCookie and DevSessionHeader carry the development bypass
	// identity. They are ignored unless the resolver runs with DevBypass.
	DevSessionCookie = "appfounders.dev-session"
	DevSessionHeader = "X-Dev-Session"

	defaultLookupTimeout = 2 * time.Second
)

// SessionConfig wires a SessionResolver.
type SessionConfig struct {
	Tokens      ports.TokenVerifier
	Identities  ports.IdentityStore
	Revocations ports.RevocationStore
	// Timeout bounds the whole resolution including store lookups.
	Timeout time.Duration
	// DevBypass accepts the unsigned development identity. Never set in production.
	DevBypass bool
	Logger    zerolog.Logger
}

// SessionResolver turns a request's session credential into a Principal.
// Every failure resolves to domain.ErrUnauthenticated; the cause is only logged.
type SessionResolver struct {
	tokens      ports.TokenVerifier
	identities  ports.IdentityStore
	revocations ports.RevocationStore
	timeout     time.Duration
	devBypass   bool
	logger      zerolog.Logger
}

func NewSessionResolver(cfg SessionConfig) *SessionResolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	if cfg.DevBypass {
		cfg.Logger.Warn().Msg("development session bypass enabled")
	}
	return &SessionResolver{
		tokens:      cfg.Tokens,
		identities:  cfg.Identities,
		revocations: cfg.Revocations,
		timeout:     timeout,
		devBypass:   cfg.DevBypass,
		logger:      cfg.Logger,
	}
}

// Resolve returns the principal of r or domain.ErrUnauthenticated.
func (s *SessionResolver) Resolve(ctx context.Context, r *http.Request) (domain.Principal, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p, outcome, err := s.resolve(ctx, r)
	metrics.SessionResolutionDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Debug().Err(err).Str("outcome", outcome).Str("path", r.URL.Path).Msg("session not resolved")
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

func (s *SessionResolver) resolve(ctx context.Context, r *http.Request) (domain.Principal, string, error) {
	if s.devBypass {
		if p, ok, err := resolveDev(r); ok {
			if err != nil {
				return domain.Principal{}, "invalid", err
			}
			return p, "dev", nil
		}
	}

	token := TokenFromRequest(r)
	if token == "" {
		return domain.Principal{}, "missing", errors.New("no session token")
	}
	if s.tokens == nil || s.identities == nil {
		return domain.Principal{}, "error", errors.New("session resolver not configured")
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Principal{}, "invalid", err
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.SessionID)
		if err != nil {
			return domain.Principal{}, "error", fmt.Errorf("revocation lookup: %w", err)
		}
		if revoked {
			return domain.Principal{}, "revoked", errors.New("session revoked")
		}
	}

	user, err := s.identities.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Principal{}, "stale", err
		}
		return domain.Principal{}, "error", fmt.Errorf("identity lookup: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Principal{}, "error", err
	}

	p, err := domain.NewPrincipal(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		return domain.Principal{}, "invalid", err
	}
	return p, "ok", nil
}

// TokenFromRequest returns the session token from the session cookie or, when
// absent, from a bearer Authorization header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

type devIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// resolveDev reads the development identity. ok is false when the request
// carries none, so normal resolution proceeds.
func resolveDev(r *http.Request) (p domain.Principal, ok bool, err error) {
	raw := r.Header.Get(DevSessionHeader)
	if c, cerr := r.Cookie(DevSessionCookie); cerr == nil && c.Value != "" {
		raw = c.Value
	}
	if raw == "" {
		return domain.Principal{}, false, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(raw, "="))
	if err != nil {
		return domain.Principal{}, true, fmt.Errorf("dev session: %w", err)
	}
	var id devIdentity
	if err := json.Unmarshal(data, &id); err != nil {
		return domain.Principal{}, true, fmt.Errorf("dev session: %w", err)
	}
	p, err = domain.NewPrincipal(id.ID, id.Email, id.Name, id.Role)
	return p, true, err
}

// EncodeDevSession builds a development bypass value for p.
func EncodeDevSession(p domain.Principal) string {
	data, _ := json.Marshal(devIdentity{ID: p.ID, Email: p.Email, Name: p.Name, Role: string(p.Role)})
	return base64.RawURLEncoding.EncodeToString(data)
}
