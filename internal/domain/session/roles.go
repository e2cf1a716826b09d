package session

import (
	"strings"
	"time"
)

// RoleAssignment is one row of the server's role-assignment list.
// Both the assignment and the role it points at can be soft-deleted.
type RoleAssignment struct {
	RoleName            string
	AssignmentDeletedAt *time.Time
	RoleDeletedAt       *time.Time
}

// active reports whether the assignment should count toward resolution.
func (a RoleAssignment) active() bool {
	return a.AssignmentDeletedAt == nil && a.RoleDeletedAt == nil
}

// rolePrecedence is the fixed resolution order. A user holding several
// active roles always collapses to the highest-precedence one; changing
// routing priority between roles is a one-line edit here.
var rolePrecedence = []Role{RoleAdmin, RoleClinicOwner, RoleClinicStaff, RolePatient}

// ResolveRole collapses a role-assignment list into the single canonical
// role for the session. Soft-deleted assignments are discarded, names are
// uppercase-normalized, the legacy "USER" name counts as PATIENT, and an
// empty or unrecognized set defaults to PATIENT.
func ResolveRole(assignments []RoleAssignment) Role {
	names := make(map[Role]bool, len(assignments))
	for _, a := range assignments {
		if !a.active() {
			continue
		}
		name := strings.ToUpper(strings.TrimSpace(a.RoleName))
		if name == legacyRoleUser {
			name = string(RolePatient)
		}
		names[Role(name)] = true
	}

	for _, r := range rolePrecedence {
		if names[r] {
			return r
		}
	}
	return RolePatient
}
