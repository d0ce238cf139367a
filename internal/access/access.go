// Package access decides whether an actor may perform a gated operation.
//
// Decisions are pure: they depend only on the actor's identity and role, the
// roles an operation accepts and, for owned resources, the owner's identity.
// Callers surface the denial to the user and stop the operation.
package access

import (
	"fmt"
	"slices"

	"blogbreeze/internal/models"
)

type Reason string

const (
	ReasonNone             Reason = ""
	ReasonUnauthenticated  Reason = "unauthenticated"
	ReasonNoProfile        Reason = "no_profile"
	ReasonRoleNotPermitted Reason = "role_not_permitted"
	ReasonNotOwner         Reason = "not_owner"
)

// Actor is the identity behind a request. A zero UserID is an anonymous
// visitor; an empty Role means the user has no role profile.
type Actor struct {
	UserID string
	Role   models.Role
}

func Anonymous() Actor {
	return Actor{}
}

func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

func (a Actor) HasProfile() bool {
	return a.Role.Valid()
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated() && a.Role == models.RoleAdmin
}

type Decision struct {
	Allowed bool
	Reason  Reason
}

var (
	allow                = Decision{Allowed: true}
	denyUnauthenticated  = Decision{Reason: ReasonUnauthenticated}
	denyNoProfile        = Decision{Reason: ReasonNoProfile}
	denyRoleNotPermitted = Decision{Reason: ReasonRoleNotPermitted}
	denyNotOwner         = Decision{Reason: ReasonNotOwner}
)

// roleTable maps (role is among the required roles) to a decision.
var roleTable = map[bool]Decision{
	true:  allow,
	false: denyRoleNotPermitted,
}

// ownershipTable maps (role, actor owns the resource) to a decision.
var ownershipTable = map[models.Role]map[bool]Decision{
	models.RoleAdmin:  {true: allow, false: allow},
	models.RoleAuthor: {true: allow, false: denyNotOwner},
	models.RoleReader: {true: allow, false: denyNotOwner},
}

// preconditions returns the denial shared by every check, if any.
func preconditions(actor Actor) (Decision, bool) {
	if !actor.Authenticated() {
		return denyUnauthenticated, true
	}
	if !actor.HasProfile() {
		return denyNoProfile, true
	}
	return Decision{}, false
}

// Evaluate allows the actor when their role is one of required.
func Evaluate(actor Actor, required ...models.Role) Decision {
	if d, denied := preconditions(actor); denied {
		return d
	}
	return roleTable[slices.Contains(required, actor.Role)]
}

// EvaluateOwnership allows the owner of a resource and any admin.
func EvaluateOwnership(actor Actor, ownerID string) Decision {
	if d, denied := preconditions(actor); denied {
		return d
	}
	return ownershipTable[actor.Role][ownerID != "" && actor.UserID == ownerID]
}

// Err converts a denial into an error, or nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &Denial{Reason: d.Reason}
}

// Denial is the error form of a negative decision.
type Denial struct {
	Reason Reason
}

func (e *Denial) Error() string {
	switch e.Reason {
	case ReasonUnauthenticated:
		return "требуется аутентификация"
	case ReasonNoProfile:
		return "у учетной записи нет профиля"
	case ReasonRoleNotPermitted:
		return "доступ запрещен: недостаточно прав"
	case ReasonNotOwner:
		return "доступ запрещен: изменять запись может только автор или администратор"
	default:
		return fmt.Sprintf("доступ запрещен (%s)", e.Reason)
	}
}
