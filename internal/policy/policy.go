// Package policy decides whether an authenticated user may perform an
// action on a resource type. Rules are derived from the user's role on
// every request and never persisted.
package policy

import "github.com/mkirylau/vinylmarket/internal/models"

type Action string

const (
	ActionManage Action = "manage"
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Resource string

const (
	ResourceAll    Resource = "all"
	ResourceUser   Resource = "user"
	ResourceRecord Resource = "record"
	ResourceReview Resource = "review"
)

type Effect int

const (
	Allow Effect = iota
	Deny
)

// Rule is one (effect, action, resource) entry. OwnerOnly restricts the
// rule to resources owned by the requesting user; such rules only apply
// when the caller supplies the owner id of the concrete resource.
type Rule struct {
	Effect    Effect
	Action    Action
	Resource  Resource
	OwnerOnly bool
}

// Ability is the evaluated permission set of one user for one request.
type Ability struct {
	userID int64
	rules  []Rule
}

var adminRules = []Rule{
	{Effect: Allow, Action: ActionManage, Resource: ResourceAll},
}

var customerRules = []Rule{
	{Effect: Allow, Action: ActionRead, Resource: ResourceUser, OwnerOnly: true},
	{Effect: Allow, Action: ActionUpdate, Resource: ResourceUser, OwnerOnly: true},
	{Effect: Allow, Action: ActionDelete, Resource: ResourceUser, OwnerOnly: true},

	{Effect: Allow, Action: ActionRead, Resource: ResourceRecord},
	{Effect: Deny, Action: ActionCreate, Resource: ResourceRecord},
	{Effect: Deny, Action: ActionUpdate, Resource: ResourceRecord},
	{Effect: Deny, Action: ActionDelete, Resource: ResourceRecord},

	{Effect: Allow, Action: ActionRead, Resource: ResourceReview},
	{Effect: Allow, Action: ActionCreate, Resource: ResourceReview},
	{Effect: Deny, Action: ActionDelete, Resource: ResourceReview},
}

// ForUser builds the ability of the given user. Unknown roles get an
// empty rule set, which denies everything.
func ForUser(userID int64, role models.Role) *Ability {
	switch role {
	case models.RoleAdmin:
		return &Ability{userID: userID, rules: adminRules}
	case models.RoleCustomer:
		return &Ability{userID: userID, rules: customerRules}
	default:
		return &Ability{userID: userID}
	}
}

// Can reports whether the user may perform action on the resource type.
// Owner-scoped rules are ignored here; use CanOwn when the concrete
// resource instance is known.
func (a *Ability) Can(action Action, resource Resource) bool {
	return a.evaluate(action, resource, false, 0)
}

// CanOwn is Can with the owner id of the concrete resource, enabling
// owner-scoped rules for resources the user owns.
func (a *Ability) CanOwn(action Action, resource Resource, ownerID int64) bool {
	return a.evaluate(action, resource, true, ownerID)
}

func (a *Ability) evaluate(action Action, resource Resource, withOwner bool, ownerID int64) bool {
	allowed := false
	for _, r := range a.rules {
		if r.Effect == Deny {
			// Denies are exact-tuple and take precedence.
			if r.Action == action && r.Resource == resource {
				return false
			}
			continue
		}
		if r.Action != action && r.Action != ActionManage {
			continue
		}
		if r.Resource != resource && r.Resource != ResourceAll {
			continue
		}
		if r.OwnerOnly && (!withOwner || a.userID != ownerID) {
			continue
		}
		allowed = true
	}
	return allowed
}
