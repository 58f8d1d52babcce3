// Package policy is the single source of truth for who may do what to a
// group, channel or message. Services load the entities involved, check
// existence themselves, and then ask the Evaluator; a Deny says nothing about
// whether the resource exists.
package policy

import "github.com/dmitrijs2005/scuttlebutt/internal/server/models"

// Role is a requirement an operation places on the principal.
type Role int

const (
	// RoleSelf: the principal is the targeted user.
	RoleSelf Role = iota
	// RoleMember: the principal belongs to the channel (or group when no
	// channel is involved).
	RoleMember
	// RoleAdmin: the principal is a group admin or the owner.
	RoleAdmin
	// RoleOwner: the principal is the group owner.
	RoleOwner
	// RoleAuthorOrAdmin: the principal wrote the message or is an admin.
	RoleAuthorOrAdmin
)

func (r Role) String() string {
	switch r {
	case RoleSelf:
		return "self"
	case RoleMember:
		return "member"
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	case RoleAuthorOrAdmin:
		return "author-or-admin"
	default:
		return "unknown"
	}
}

// Decision is the evaluator's answer.
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

// Resource bundles what a check may look at. Group is required for every
// role except RoleSelf; Channel narrows RoleMember; Message is needed for
// RoleAuthorOrAdmin; Target is the user an operation acts upon.
type Resource struct {
	UserID  int64
	Target  int64
	Group   *models.Group
	Channel *models.Channel
	Message *models.Message
}

// standing is the principal's rank within a group. Ranks are cumulative:
// an owner also counts as admin and member.
type standing int

const (
	standingNone standing = iota
	standingMember
	standingAdmin
	standingOwner
)

// Evaluator has no state; the zero value is ready to use.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Check answers whether principal satisfies required on res.
func (e *Evaluator) Check(principal int64, res Resource, required Role) Decision {
	switch required {
	case RoleSelf:
		return Decision(principal == res.UserID)
	case RoleMember:
		return Decision(standingOf(principal, res) >= standingMember)
	case RoleAdmin:
		return Decision(standingOf(principal, res) >= standingAdmin)
	case RoleOwner:
		return Decision(standingOf(principal, res) >= standingOwner)
	case RoleAuthorOrAdmin:
		if res.Message != nil && res.Message.Author == principal {
			return Allow
		}
		return Decision(standingOf(principal, res) >= standingAdmin)
	default:
		return Deny
	}
}

// Authorize checks the requirement of op plus the constraints that are
// specific to it, such as the owner never being removable.
func (e *Evaluator) Authorize(principal int64, op Operation, res Resource) Decision {
	required, ok := requirements[op]
	if !ok {
		return Deny
	}
	if e.Check(principal, res, required) == Deny {
		return Deny
	}

	switch op {
	case OpRemoveGroupMember, OpRemoveGroupAdmin:
		if res.Group == nil || res.Target == res.Group.Owner {
			return Deny
		}
	case OpLeaveGroup:
		if res.Group == nil || (!res.Group.IsDM && res.Target == res.Group.Owner) {
			return Deny
		}
	}
	return Allow
}

// standingOf ranks principal within res.Group. DM groups have no privileged
// roles: their owner field is structural only, so the best anyone can be in
// a DM is a member.
func standingOf(principal int64, res Resource) standing {
	g := res.Group
	if g == nil {
		if res.Channel != nil && res.Channel.HasMember(principal) {
			return standingMember
		}
		return standingNone
	}

	if !g.IsDM {
		if principal == g.Owner {
			return standingOwner
		}
		if g.HasAdmin(principal) && g.HasMember(principal) {
			return standingAdmin
		}
	}

	if res.Channel != nil {
		if res.Channel.HasMember(principal) && g.HasMember(principal) {
			return standingMember
		}
		return standingNone
	}
	if g.HasMember(principal) {
		return standingMember
	}
	return standingNone
}
