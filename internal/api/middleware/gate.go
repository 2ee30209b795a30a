package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/appfounders/marketplace/internal/api/metrics"
	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

// Client-facing denial messages.
const (
	MsgNotAuthenticated        = "Not authenticated"
	MsgInsufficientPermissions = "Insufficient permissions"
	MsgResourceDenied          = "Access to this resource is denied"
)

// PrincipalKey is the echo context key Require stores the principal under.
const PrincipalKey = "principal"

// Resolver resolves the caller of a request.
type Resolver interface {
	Resolve(ctx context.Context, r *http.Request) (domain.Principal, error)
}

// HandlerFunc is a route handler that runs only after the gate allowed the
// request. p is the resolved caller.
type HandlerFunc func(c echo.Context, p domain.Principal) error

// Gate enforces a RoutePolicy in front of a handler. It holds no per-request
// state and is safe for concurrent use.
type Gate struct {
	resolver    Resolver
	permissions ports.PermissionHook
	logger      zerolog.Logger
}

func NewGate(resolver Resolver, permissions ports.PermissionHook, logger zerolog.Logger) *Gate {
	return &Gate{resolver: resolver, permissions: permissions, logger: logger}
}

// Protect wraps h so it runs only for callers that satisfy policy. Handler
// errors are returned unchanged.
func (g *Gate) Protect(policy domain.RoutePolicy, h HandlerFunc) echo.HandlerFunc {
	g.checkPolicy(policy)
	return func(c echo.Context) error {
		p, decision, msg := g.Evaluate(c, policy)
		if decision != domain.DecisionAllow {
			return c.JSON(statusFor(decision), map[string]string{"error": msg})
		}
		return h(c, p)
	}
}

// Require is Protect as echo middleware. The principal is stored in the
// context and read back with PrincipalFrom.
func (g *Gate) Require(policy domain.RoutePolicy) echo.MiddlewareFunc {
	g.checkPolicy(policy)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, decision, msg := g.Evaluate(c, policy)
			if decision != domain.DecisionAllow {
				return c.JSON(statusFor(decision), map[string]string{"error": msg})
			}
			c.Set(PrincipalKey, p)
			return next(c)
		}
	}
}

// Evaluate decides whether the request in c may proceed under policy. It
// writes nothing to the response. On allow the message is empty.
func (g *Gate) Evaluate(c echo.Context, policy domain.RoutePolicy) (domain.Principal, domain.AccessDecision, string) {
	p, decision, msg, cause := g.evaluate(c, policy)

	metrics.GateDecisionsTotal.WithLabelValues(decision.String(), policy.RequiredRole.String()).Inc()
	if decision != domain.DecisionAllow {
		ev := g.logger.Debug().
			Str("path", c.Path()).
			Str("required_role", policy.RequiredRole.String()).
			Str("decision", decision.String())
		if cause != nil {
			ev = ev.Err(cause)
		}
		if p.ID != "" {
			ev = ev.Str("user_id", p.ID)
		}
		ev.Msg("request denied")
		return domain.Principal{}, decision, msg
	}
	return p, decision, ""
}

func (g *Gate) evaluate(c echo.Context, policy domain.RoutePolicy) (domain.Principal, domain.AccessDecision, string, error) {
	if err := policy.Validate(); err != nil {
		return domain.Principal{}, domain.DecisionDenyInsufficientRole, MsgInsufficientPermissions, err
	}

	if g.resolver == nil {
		return domain.Principal{}, domain.DecisionDenyUnauthenticated, MsgNotAuthenticated, errors.New("no session resolver")
	}
	p, err := g.resolver.Resolve(c.Request().Context(), c.Request())
	if err != nil {
		return domain.Principal{}, domain.DecisionDenyUnauthenticated, MsgNotAuthenticated, err
	}

	if !domain.Satisfies(p.Role, policy.RequiredRole) {
		return p, domain.DecisionDenyInsufficientRole, MsgInsufficientPermissions, domain.ErrInsufficientRole
	}

	if policy.HasResourceCheck() {
		if g.permissions == nil {
			return p, domain.DecisionDenyResourceForbidden, MsgResourceDenied, errors.New("no permission hook")
		}
		target := domain.ResourceTarget{ID: c.Param("id")}
		if err := g.permissions.Check(c.Request().Context(), p, policy.ResourceType, policy.Action, target); err != nil {
			return p, domain.DecisionDenyResourceForbidden, denialMessage(err), err
		}
	}

	return p, domain.DecisionAllow, "", nil
}

// checkPolicy reports invalid policies at registration. They deny every request.
func (g *Gate) checkPolicy(policy domain.RoutePolicy) {
	if err := policy.Validate(); err != nil {
		g.logger.Error().Err(err).Msg("invalid route policy, all requests will be denied")
	}
}

// PrincipalFrom returns the principal stored by Require.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(domain.Principal)
	return p, ok
}

func denialMessage(err error) string {
	var denial *domain.ResourceDenial
	if errors.As(err, &denial) && denial.Reason != "" && denial.Reason != MsgInsufficientPermissions {
		return denial.Reason
	}
	return MsgResourceDenied
}

func statusFor(d domain.AccessDecision) int {
	if d == domain.DecisionDenyUnauthenticated {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}
