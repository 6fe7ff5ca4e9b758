// Package policy is the access decision table. Decide is pure: it looks only
// at the caller's role and the requested (operation, resource) pair and says
// whether to proceed and which rows the caller may touch.
package policy

import (
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/tenant"
)

type Resource uint8

const (
	ResourceProject Resource = iota + 1
	ResourceTask
	ResourceSubtask
	ResourceTeam
	ResourceUser
	ResourceTimeEntry
	ResourceCategory
	ResourceDependency
)

type Operation uint8

const (
	OpList Operation = iota + 1
	OpView
	// OpReport covers aggregate reads (project stats and metrics).
	OpReport
	OpCreate
	OpUpdate
	OpDelete
)

type Outcome uint8

const (
	Unauthenticated Outcome = iota
	Forbidden
	Allow
)

// Scope is the row filter attached to an Allow decision.
type Scope uint8

const (
	ScopeNone Scope = iota
	// ScopeTenant: every row of the caller's customer.
	ScopeTenant
	// ScopeManagedProjects: projects whose project_manager_id is the caller.
	ScopeManagedProjects
	// ScopeAssignedTasks: tasks with at least one subtask assigned to the caller.
	ScopeAssignedTasks
	// ScopeMemberTeams: teams the caller belongs to.
	ScopeMemberTeams
	// ScopeSelf: rows owned by the caller (own user row, own time entries).
	ScopeSelf
)

type Decision struct {
	Outcome Outcome
	Scope   Scope
}

func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// Err translates a refusal into the error taxonomy; nil when allowed.
func (d Decision) Err() error {
	switch d.Outcome {
	case Allow:
		return nil
	case Forbidden:
		return apperr.ErrForbidden
	default:
		return apperr.ErrUnauthenticated
	}
}

var (
	forbidden       = Decision{Outcome: Forbidden}
	unauthenticated = Decision{Outcome: Unauthenticated}
)

func allow(s Scope) Decision {
	return Decision{Outcome: Allow, Scope: s}
}

// Decide returns the decision for actor performing op on res.
func Decide(actor tenant.Actor, op Operation, res Resource) Decision {
	if !actor.Valid() {
		return unauthenticated
	}

	switch actor.Role {
	case tenant.RoleAdmin:
		return decideAdmin(op, res)
	case tenant.RoleProjectManager:
		return decideProjectManager(op, res)
	case tenant.RoleTeamMember:
		return decideTeamMember(op, res)
	default:
		return unauthenticated
	}
}

// Check is Decide followed by Err, for callers that only need the verdict.
func Check(actor tenant.Actor, op Operation, res Resource) (Scope, error) {
	d := Decide(actor, op, res)
	return d.Scope, d.Err()
}

func decideAdmin(op Operation, res Resource) Decision {
	switch res {
	case ResourceProject, ResourceTask, ResourceSubtask, ResourceTeam,
		ResourceUser, ResourceTimeEntry, ResourceCategory, ResourceDependency:
		if op == OpReport && res != ResourceProject {
			return forbidden
		}
		if op == OpCreate && res == ResourceTimeEntry {
			return allow(ScopeSelf)
		}
		return allow(ScopeTenant)
	default:
		return forbidden
	}
}

func decideProjectManager(op Operation, res Resource) Decision {
	switch res {
	case ResourceProject:
		switch op {
		case OpReport:
			return allow(ScopeTenant)
		case OpCreate:
			return allow(ScopeSelf)
		case OpList, OpView, OpUpdate, OpDelete:
			return allow(ScopeManagedProjects)
		}
	case ResourceTask, ResourceSubtask, ResourceTeam, ResourceUser,
		ResourceCategory, ResourceDependency:
		if op == OpReport {
			return forbidden
		}
		return allow(ScopeTenant)
	case ResourceTimeEntry:
		switch op {
		case OpCreate:
			return allow(ScopeSelf)
		case OpList, OpView, OpUpdate, OpDelete:
			return allow(ScopeTenant)
		}
	}
	return forbidden
}

func decideTeamMember(op Operation, res Resource) Decision {
	switch res {
	case ResourceProject:
		switch op {
		case OpReport:
			return allow(ScopeTenant)
		case OpList, OpView:
			// Same filter as project managers: only projects the caller manages.
			return allow(ScopeManagedProjects)
		}
	case ResourceTask, ResourceSubtask, ResourceDependency:
		if op == OpList || op == OpView {
			return allow(ScopeAssignedTasks)
		}
	case ResourceTeam:
		if op == OpList || op == OpView {
			return allow(ScopeMemberTeams)
		}
	case ResourceUser:
		if op == OpView || op == OpUpdate {
			return allow(ScopeSelf)
		}
	case ResourceTimeEntry:
		switch op {
		case OpCreate, OpList, OpView, OpUpdate, OpDelete:
			return allow(ScopeSelf)
		}
	case ResourceCategory:
		if op == OpList || op == OpView {
			return allow(ScopeTenant)
		}
	}
	return forbidden
}
