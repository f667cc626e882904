package policy

import (
	"testing"

	"github.com/mkirylau/vinylmarket/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAbility_Customer(t *testing.T) {
	ability := ForUser(1, models.RoleCustomer)

	t.Run("reviews are readable and creatable but not deletable", func(t *testing.T) {
		assert.True(t, ability.Can(ActionRead, ResourceReview))
		assert.True(t, ability.Can(ActionCreate, ResourceReview))
		assert.False(t, ability.Can(ActionDelete, ResourceReview))
		assert.False(t, ability.CanOwn(ActionDelete, ResourceReview, 1))
	})

	t.Run("records are read-only", func(t *testing.T) {
		assert.True(t, ability.Can(ActionRead, ResourceRecord))
		assert.False(t, ability.Can(ActionCreate, ResourceRecord))
		assert.False(t, ability.Can(ActionUpdate, ResourceRecord))
		assert.False(t, ability.Can(ActionDelete, ResourceRecord))
	})

	t.Run("own profile is fully accessible", func(t *testing.T) {
		assert.True(t, ability.CanOwn(ActionRead, ResourceUser, 1))
		assert.True(t, ability.CanOwn(ActionUpdate, ResourceUser, 1))
		assert.True(t, ability.CanOwn(ActionDelete, ResourceUser, 1))
	})

	t.Run("someone else's profile is denied", func(t *testing.T) {
		assert.False(t, ability.CanOwn(ActionRead, ResourceUser, 2))
		assert.False(t, ability.CanOwn(ActionUpdate, ResourceUser, 2))
		assert.False(t, ability.CanOwn(ActionDelete, ResourceUser, 2))
	})

	t.Run("owner-scoped rules need an owner id", func(t *testing.T) {
		assert.False(t, ability.Can(ActionRead, ResourceUser))
	})
}

func TestAbility_Admin(t *testing.T) {
	ability := ForUser(99, models.RoleAdmin)

	actions := []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionManage}
	resources := []Resource{ResourceUser, ResourceRecord, ResourceReview}

	for _, action := range actions {
		for _, resource := range resources {
			assert.True(t, ability.Can(action, resource), "admin should be allowed %s on %s", action, resource)
		}
	}

	t.Run("wildcard covers other users' profiles", func(t *testing.T) {
		assert.True(t, ability.CanOwn(ActionDelete, ResourceUser, 1))
	})
}

func TestAbility_DenyPrecedence(t *testing.T) {
	// A deny for the exact tuple wins even when an allow rule also matches.
	ability := &Ability{userID: 1, rules: []Rule{
		{Effect: Allow, Action: ActionManage, Resource: ResourceReview},
		{Effect: Deny, Action: ActionDelete, Resource: ResourceReview},
	}}

	assert.True(t, ability.Can(ActionRead, ResourceReview))
	assert.True(t, ability.Can(ActionCreate, ResourceReview))
	assert.False(t, ability.Can(ActionDelete, ResourceReview))
}

func TestAbility_UnknownRole(t *testing.T) {
	ability := ForUser(1, models.Role("intern"))
	assert.False(t, ability.Can(ActionRead, ResourceRecord))
	assert.False(t, ability.CanOwn(ActionRead, ResourceUser, 1))
}
