package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appfounders/marketplace/internal/core/domain"
)

var adminAnn = domain.Principal{ID: "admin-ann", Role: domain.RoleAdmin}

func newTestRegistry(apps *stubAppRepo, reviews *stubReviewRepo) *PermissionRegistry {
	reg := NewPermissionRegistry()
	reg.Register(ResourceApp, AppOwnershipRule(apps))
	reg.Register(ResourceReview, ReviewAuthorshipRule(reviews))
	return reg
}

func TestPermissionRegistry_AdminBypassesRules(t *testing.T) {
	reg := NewPermissionRegistry()
	reg.Register("anything", func(context.Context, domain.Principal, domain.Action, domain.ResourceTarget) error {
		t.Fatal("rule must not run for admins")
		return nil
	})

	assert.NoError(t, reg.Check(context.Background(), adminAnn, "anything", domain.ActionDelete, domain.ResourceTarget{ID: "x"}))
	// admins pass even for types without a rule
	assert.NoError(t, reg.Check(context.Background(), adminAnn, "unregistered", domain.ActionWrite, domain.ResourceTarget{}))
}

func TestPermissionRegistry_UnknownTypeDenies(t *testing.T) {
	reg := NewPermissionRegistry()

	err := reg.Check(context.Background(), devAlice, "invoice", domain.ActionRead, domain.ResourceTarget{ID: "1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoPermissionRule))
}

func TestAppOwnershipRule(t *testing.T) {
	apps := newStubAppRepo()
	seedApp(apps, "approved-1", devAlice.ID, domain.AppStatusApproved)
	seedApp(apps, "pending-1", devAlice.ID, domain.AppStatusPending)
	reg := newTestRegistry(apps, newStubReviewRepo())

	cases := []struct {
		name    string
		p       domain.Principal
		action  domain.Action
		id      string
		allowed bool
		reason  string
	}{
		{"owner reads pending", devAlice, domain.ActionRead, "pending-1", true, ""},
		{"tester reads approved", testerTom, domain.ActionRead, "approved-1", true, ""},
		{"tester reads pending", testerTom, domain.ActionRead, "pending-1", false, "You do not have access to this app"},
		{"owner writes", devAlice, domain.ActionWrite, "approved-1", true, ""},
		{"other developer writes", devBob, domain.ActionWrite, "approved-1", false, "You can only modify apps you own"},
		{"other developer deletes", devBob, domain.ActionDelete, "pending-1", false, "You can only modify apps you own"},
		{"missing app", devAlice, domain.ActionRead, "nope", false, "You do not have access to this app"},
		{"empty id", devAlice, domain.ActionWrite, "", false, "You do not have access to this app"},
		{"admin writes foreign app", adminAnn, domain.ActionWrite, "pending-1", true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := reg.Check(context.Background(), tc.p, ResourceApp, tc.action, domain.ResourceTarget{ID: tc.id})
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			var denial *domain.ResourceDenial
			require.ErrorAs(t, err, &denial)
			assert.Equal(t, tc.reason, denial.Reason)
			assert.ErrorIs(t, err, domain.ErrResourceForbidden)
		})
	}
}

func TestAppOwnershipRule_StoreErrorDenies(t *testing.T) {
	apps := newStubAppRepo()
	apps.findErr = errors.New("connection reset")
	reg := newTestRegistry(apps, newStubReviewRepo())

	err := reg.Check(context.Background(), devAlice, ResourceApp, domain.ActionRead, domain.ResourceTarget{ID: "app-1"})
	require.Error(t, err)
	var denial *domain.ResourceDenial
	assert.False(t, errors.As(err, &denial), "store failures are not resource denials")
}

func TestReviewAuthorshipRule(t *testing.T) {
	reviews := newStubReviewRepo()
	reviews.byID["rev-1"] = &domain.Review{ID: "rev-1", AppID: "app-1", TesterID: testerTom.ID}
	reg := newTestRegistry(newStubAppRepo(), reviews)
	ctx := context.Background()

	assert.NoError(t, reg.Check(ctx, devBob, ResourceReview, domain.ActionRead, domain.ResourceTarget{ID: "rev-1"}))
	assert.NoError(t, reg.Check(ctx, testerTom, ResourceReview, domain.ActionDelete, domain.ResourceTarget{ID: "rev-1"}))
	assert.NoError(t, reg.Check(ctx, adminAnn, ResourceReview, domain.ActionDelete, domain.ResourceTarget{ID: "rev-1"}))

	for _, id := range []string{"rev-1", "rev-missing"} {
		err := reg.Check(ctx, devBob, ResourceReview, domain.ActionDelete, domain.ResourceTarget{ID: id})
		var denial *domain.ResourceDenial
		require.ErrorAs(t, err, &denial, id)
		assert.Equal(t, "You can only modify your own reviews", denial.Reason)
	}
}
