package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts() *time.Time {
	t := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &t
}

func TestResolveRole_AdminWinsOverOtherActiveRoles(t *testing.T) {
	cases := [][]RoleAssignment{
		{{RoleName: "ADMIN"}, {RoleName: "PATIENT"}},
		{{RoleName: "PATIENT"}, {RoleName: "ADMIN"}},
		{{RoleName: "admin"}, {RoleName: "CLINIC_OWNER"}, {RoleName: "CLINIC_STAFF"}},
		{{RoleName: "USER"}, {RoleName: "Admin"}},
	}
	for _, assignments := range cases {
		assert.Equal(t, RoleAdmin, ResolveRole(assignments))
	}
}

func TestResolveRole_Precedence(t *testing.T) {
	assert.Equal(t, RoleClinicOwner, ResolveRole([]RoleAssignment{
		{RoleName: "CLINIC_STAFF"}, {RoleName: "CLINIC_OWNER"}, {RoleName: "PATIENT"},
	}))
	assert.Equal(t, RoleClinicStaff, ResolveRole([]RoleAssignment{
		{RoleName: "PATIENT"}, {RoleName: "CLINIC_STAFF"},
	}))
}

func TestResolveRole_SoftDeletedAssignmentsIgnored(t *testing.T) {
	resolved := ResolveRole([]RoleAssignment{
		{RoleName: "ADMIN", AssignmentDeletedAt: ts()},
		{RoleName: "PATIENT"},
	})
	assert.Equal(t, RolePatient, resolved)

	resolved = ResolveRole([]RoleAssignment{
		{RoleName: "ADMIN", RoleDeletedAt: ts()},
		{RoleName: "CLINIC_STAFF"},
	})
	assert.Equal(t, RoleClinicStaff, resolved)
}

func TestResolveRole_LegacyUserIsPatient(t *testing.T) {
	assert.Equal(t, RolePatient, ResolveRole([]RoleAssignment{{RoleName: "user"}}))
	assert.Equal(t, RolePatient, ResolveRole([]RoleAssignment{{RoleName: "USER"}}))
}

func TestResolveRole_DefaultsToPatient(t *testing.T) {
	assert.Equal(t, RolePatient, ResolveRole(nil))
	assert.Equal(t, RolePatient, ResolveRole([]RoleAssignment{}))
	assert.Equal(t, RolePatient, ResolveRole([]RoleAssignment{{RoleName: "SOMETHING_ELSE"}}))
	assert.Equal(t, RolePatient, ResolveRole([]RoleAssignment{
		{RoleName: "ADMIN", AssignmentDeletedAt: ts()},
	}))
}

func TestResolveRole_WhitespaceAndCaseNormalized(t *testing.T) {
	assert.Equal(t, RoleClinicOwner, ResolveRole([]RoleAssignment{{RoleName: "  clinic_owner "}}))
}
