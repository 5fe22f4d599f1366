// Package ability decides which actions a principal may perform on a work.
//
// Rules are data: a table of predicate closures keyed by action, built per
// principal. Adding a role or an action is a table change, not a type
// change. The factory never touches storage and never fails; an action
// without a matching rule is a deny.
package ability

import (
	"pagecraft-backend/internal/shared"
)

// Action is one of the operations the policy layer can ask about.
type Action string

const (
	ActionCreate          Action = "create"
	ActionRead            Action = "read"
	ActionUpdate          Action = "update"
	ActionPublish         Action = "publish"
	ActionPublishTemplate Action = "publishTemplate"
	ActionDelete          Action = "delete"
	ActionManageChannels  Action = "manageChannels"
)

// Instance is the normalized view of a work that rules evaluate against.
// OwnerID must already be flattened to a plain string; the policy layer is
// responsible for that normalization so ownership predicates never compare
// a string against a reference type.
type Instance struct {
	OwnerID  string
	IsPublic bool
}

type predicate func(inst Instance) bool

// Ability is the capability set of one principal.
type Ability struct {
	allowAll bool
	denied   map[Action]bool
	rules    map[Action][]predicate
}

func allow(Instance) bool { return true }

func ownerOnly(ownerID string) predicate {
	return func(inst Instance) bool { return inst.OwnerID == ownerID }
}

func publicOnly(inst Instance) bool { return inst.IsPublic }

// New builds the capability set for a principal. An empty role is treated
// as normal; substituting the default is the caller's job when the
// principal comes from a legacy token, but it is also safe to pass through.
func New(p shared.Principal) Ability {
	if p.Role == shared.RoleAdmin {
		// Admins may do everything except delete. The delete denial takes
		// precedence over the blanket allow.
		return Ability{
			allowAll: true,
			denied:   map[Action]bool{ActionDelete: true},
		}
	}

	owner := ownerOnly(p.ID.String())

	return Ability{
		rules: map[Action][]predicate{
			ActionCreate:          {allow},
			ActionRead:            {owner, publicOnly},
			ActionUpdate:          {owner},
			ActionPublish:         {owner},
			ActionPublishTemplate: {owner},
			ActionDelete:          {owner},
			ActionManageChannels:  {owner},
		},
	}
}

// Can evaluates the decision for an action against an instance. For
// ActionCreate there is no target; pass the zero Instance.
func (a Ability) Can(action Action, inst Instance) bool {
	if a.denied[action] {
		return false
	}
	if a.allowAll {
		return true
	}
	for _, pred := range a.rules[action] {
		if pred(inst) {
			return true
		}
	}
	return false
}
