// Package policy holds the pure access-control decisions consulted by
// the service layer. Functions here never touch storage: they take the
// actor and the target's ownership facts and return allow/deny.
package policy

import (
	"fitcoach/coaching-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated caller as established by the auth
// middleware.
type Actor struct {
	ID     primitive.ObjectID
	RoleID domain.Role
}

// IsCoachOrAdmin reports whether the actor holds a privileged role.
// Gates exercise/taxonomy creation, plan creation and user search.
func IsCoachOrAdmin(actor Actor) bool {
	return actor.RoleID == domain.RoleAdmin || actor.RoleID == domain.RoleCoach
}

// IsAdmin gates user listing, user deletion and coach approval.
func IsAdmin(actor Actor) bool {
	return actor.RoleID == domain.RoleAdmin
}

// CanMutateExercise decides update/delete on an exercise: the owning
// coach or an admin. ownerID is nil for unowned catalogue seeds, which
// only an admin may touch.
func CanMutateExercise(actor Actor, ownerID *primitive.ObjectID) bool {
	if actor.RoleID == domain.RoleAdmin {
		return true
	}
	if actor.RoleID != domain.RoleCoach {
		return false
	}
	return ownerID != nil && *ownerID == actor.ID
}

// CanMutateTaxonomy decides create/update/delete on the six
// classification tables.
func CanMutateTaxonomy(actor Actor) bool {
	return IsCoachOrAdmin(actor)
}

// CanCreatePlan decides plan creation.
func CanCreatePlan(actor Actor) bool {
	return IsCoachOrAdmin(actor)
}

// CanMutatePlan decides update/delete on a plan. Strict ownership:
// only the authoring coach, with no admin override. This mirrors the
// observed behavior of plan endpoints and is intentional; see
// DESIGN.md.
func CanMutatePlan(actor Actor, planCoachID primitive.ObjectID) bool {
	return actor.ID == planCoachID
}

// CanReadUser decides whether the actor may view a user record: the
// user themselves, an admin, or the coach the target is assigned to.
func CanReadUser(actor Actor, targetID primitive.ObjectID, targetCoachID *primitive.ObjectID) bool {
	if actor.ID == targetID {
		return true
	}
	if actor.RoleID == domain.RoleAdmin {
		return true
	}
	if actor.RoleID == domain.RoleCoach && targetCoachID != nil && *targetCoachID == actor.ID {
		return true
	}
	return false
}

// CanUpdateUser decides whether the actor may update a user record:
// the user themselves or an admin.
func CanUpdateUser(actor Actor, targetID primitive.ObjectID) bool {
	return actor.ID == targetID || actor.RoleID == domain.RoleAdmin
}

// CanAccessProfile decides read/write on a client's measurement
// profile: the client themselves, their coach, or an admin.
func CanAccessProfile(actor Actor, targetID primitive.ObjectID, targetCoachID *primitive.ObjectID) bool {
	return CanReadUser(actor, targetID, targetCoachID)
}

// CanSearchUsers decides access to user search.
func CanSearchUsers(actor Actor) bool {
	return IsCoachOrAdmin(actor)
}

// CanMutateSession decides update on a workout session: the client it
// is assigned to, the plan's authoring coach, or an admin.
func CanMutateSession(actor Actor, sessionClientID, planCoachID primitive.ObjectID) bool {
	if actor.RoleID == domain.RoleAdmin {
		return true
	}
	return actor.ID == sessionClientID || actor.ID == planCoachID
}
