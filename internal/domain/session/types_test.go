package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileData_IsComplete(t *testing.T) {
	complete := ProfileData{
		DateOfBirth: "1990-04-12",
		BloodType:   "O+",
		Height:      "1.75",
		Weight:      "72",
	}
	assert.True(t, complete.IsComplete())

	// Any single missing field forces the completion path.
	missing := []ProfileData{
		{BloodType: "O+", Height: "1.75", Weight: "72"},
		{DateOfBirth: "1990-04-12", Height: "1.75", Weight: "72"},
		{DateOfBirth: "1990-04-12", BloodType: "O+", Weight: "72"},
		{DateOfBirth: "1990-04-12", BloodType: "O+", Height: "1.75"},
	}
	for _, p := range missing {
		assert.False(t, p.IsComplete())
	}

	blank := ProfileData{DateOfBirth: "  ", BloodType: "O+", Height: "1.75", Weight: "72"}
	assert.False(t, blank.IsComplete())
}

func TestUser_HasAssignedLine(t *testing.T) {
	assert.False(t, User{}.HasAssignedLine())
	assert.False(t, User{AssignedLineID: 0}.HasAssignedLine())
	assert.True(t, User{AssignedLineID: 5}.HasAssignedLine())
}

func TestUser_Clone_DoesNotAliasProfile(t *testing.T) {
	u := User{
		ID:      "u1",
		Role:    RolePatient,
		Profile: &ProfileData{BloodType: "A-"},
	}
	c := u.Clone()
	require.NotNil(t, c.Profile)
	c.Profile.BloodType = "B+"
	assert.Equal(t, "A-", u.Profile.BloodType)
}

func TestSession_Predicates(t *testing.T) {
	assert.False(t, Session{}.IsAuthenticated())
	assert.False(t, Session{Status: StatusValidating, Token: "t"}.IsAuthenticated())
	assert.True(t, Session{Status: StatusAuthenticated, Token: "t", User: &User{}}.IsAuthenticated())

	assert.True(t, StatusRestoring.IsLoading())
	assert.True(t, StatusValidating.IsLoading())
	assert.False(t, StatusAuthenticated.IsLoading())
	assert.False(t, StatusUnauthenticated.IsLoading())
	assert.False(t, StatusUnknown.IsLoading())
}

func TestRole_Predicates(t *testing.T) {
	assert.True(t, RoleAdmin.IsStaff())
	assert.True(t, RoleClinicOwner.IsStaff())
	assert.True(t, RoleClinicStaff.IsStaff())
	assert.False(t, RolePatient.IsStaff())

	assert.True(t, RolePatient.CanOwnProfile())
	assert.False(t, RoleAdmin.CanOwnProfile())
	assert.False(t, RoleClinicStaff.CanOwnProfile())
}
