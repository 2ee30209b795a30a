package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Principal is the resolved identity of the caller for a single request.
// It is a value type: handlers receive a copy and cannot mutate the gate's view.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// NewPrincipal validates the attributes read from a session and returns a
// Principal. Downstream code never re-checks these fields.
func NewPrincipal(id, email, name, role string) (Principal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Principal{}, fmt.Errorf("principal: %w: missing id", ErrUnauthenticated)
	}
	r, err := ParseRole(role)
	if err != nil {
		return Principal{}, fmt.Errorf("principal: %w", err)
	}
	return Principal{ID: id, Email: email, Name: name, Role: r}, nil
}

// IsAdmin reports whether p holds admin rank or higher.
func (p Principal) IsAdmin() bool {
	return Satisfies(p.Role, RoleAdmin)
}

// Action is the operation a resource-scoped route performs.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionRead, ActionWrite, ActionDelete:
		return true
	}
	return false
}

// RoutePolicy is attached to a protected route at registration time.
// An empty ResourceType means no resource-level check.
type RoutePolicy struct {
	RequiredRole Role
	ResourceType string
	Action       Action
}

// Validate rejects policies the gate cannot evaluate unambiguously.
func (p RoutePolicy) Validate() error {
	if !p.RequiredRole.Valid() {
		return fmt.Errorf("route policy: %w: %q", ErrUnknownRole, p.RequiredRole)
	}
	if p.ResourceType == "" {
		if p.Action != "" {
			return errors.New("route policy: action set without resource type")
		}
		return nil
	}
	if !p.Action.Valid() {
		return fmt.Errorf("route policy: invalid action %q for resource %q", p.Action, p.ResourceType)
	}
	return nil
}

// HasResourceCheck reports whether the policy asks for a resource-level check.
func (p RoutePolicy) HasResourceCheck() bool {
	return p.ResourceType != ""
}

// AccessDecision is the outcome of evaluating a principal against a policy.
type AccessDecision int

const (
	DecisionAllow AccessDecision = iota
	DecisionDenyUnauthenticated
	DecisionDenyInsufficientRole
	DecisionDenyResourceForbidden
)

func (d AccessDecision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionDenyUnauthenticated:
		return "deny_unauthenticated"
	case DecisionDenyInsufficientRole:
		return "deny_insufficient_role"
	case DecisionDenyResourceForbidden:
		return "deny_resource_forbidden"
	default:
		return "unknown"
	}
}

// ResourceTarget identifies the resource a request operates on.
type ResourceTarget struct {
	ID string
}

// ResourceDenial is returned by permission rules that want a specific
// message surfaced to the client.
type ResourceDenial struct {
	Reason string
}

func (e *ResourceDenial) Error() string {
	return "resource forbidden: " + e.Reason
}

func (e *ResourceDenial) Unwrap() error {
	return ErrResourceForbidden
}

// DenyResource returns a ResourceDenial carrying reason.
func DenyResource(reason string) error {
	return &ResourceDenial{Reason: reason}
}
