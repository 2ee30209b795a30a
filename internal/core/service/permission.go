package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

// Resource types understood by the registry.
const (
	ResourceApp    = "app"
	ResourceReview = "review"
)

// PermissionRegistry is the default PermissionHook. Admins are always
// allowed; everyone else needs an explicit allow from the rule registered for
// the resource type. Rules are registered at startup, before serving.
type PermissionRegistry struct {
	rules map[string]ports.PermissionRule
}

func NewPermissionRegistry() *PermissionRegistry {
	return &PermissionRegistry{rules: make(map[string]ports.PermissionRule)}
}

// Register sets the rule for resourceType, replacing any previous one.
func (r *PermissionRegistry) Register(resourceType string, rule ports.PermissionRule) {
	r.rules[resourceType] = rule
}

func (r *PermissionRegistry) Check(ctx context.Context, p domain.Principal, resourceType string, action domain.Action, target domain.ResourceTarget) error {
	if p.IsAdmin() {
		return nil
	}
	rule, ok := r.rules[resourceType]
	if !ok || rule == nil {
		return fmt.Errorf("%w: %q", domain.ErrNoPermissionRule, resourceType)
	}
	return rule(ctx, p, action, target)
}

// AppOwnershipRule lets anyone read approved apps and restricts everything
// else to the submitting developer. Missing apps are denied with the same
// message as foreign ones.
func AppOwnershipRule(apps ports.AppRepository) ports.PermissionRule {
	return func(ctx context.Context, p domain.Principal, action domain.Action, target domain.ResourceTarget) error {
		if target.ID == "" {
			return domain.DenyResource("You do not have access to this app")
		}
		app, err := apps.FindByID(ctx, target.ID)
		if err != nil {
			if errors.Is(err, domain.ErrAppNotFound) {
				return domain.DenyResource("You do not have access to this app")
			}
			return fmt.Errorf("app permission: %w", err)
		}

		switch action {
		case domain.ActionRead:
			if app.Status == domain.AppStatusApproved || app.OwnedBy(p.ID) {
				return nil
			}
		case domain.ActionWrite, domain.ActionDelete:
			if app.OwnedBy(p.ID) {
				return nil
			}
			return domain.DenyResource("You can only modify apps you own")
		}
		return domain.DenyResource("You do not have access to this app")
	}
}

// ReviewAuthorshipRule lets anyone read reviews and restricts changes to the author.
func ReviewAuthorshipRule(reviews ports.ReviewRepository) ports.PermissionRule {
	return func(ctx context.Context, p domain.Principal, action domain.Action, target domain.ResourceTarget) error {
		if action == domain.ActionRead {
			return nil
		}
		if target.ID == "" {
			return domain.DenyResource("You can only modify your own reviews")
		}
		review, err := reviews.FindByID(ctx, target.ID)
		if err != nil {
			if errors.Is(err, domain.ErrReviewNotFound) {
				return domain.DenyResource("You can only modify your own reviews")
			}
			return fmt.Errorf("review permission: %w", err)
		}
		if review.AuthoredBy(p.ID) {
			return nil
		}
		return domain.DenyResource("You can only modify your own reviews")
	}
}
