package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
)

func authedView(role domainsession.Role) View {
	return View{
		Authenticated:  true,
		HasStoredToken: true,
		Role:           role,
	}
}

func TestDecide_LoadingNeverRedirects(t *testing.T) {
	d := Decide(View{Loading: true, HasStoredToken: true}, Requirements{RequireAdmin: true})
	assert.Equal(t, ShowLoading, d.Outcome)
	assert.Equal(t, PlaceholderVerifying, d.Placeholder)

	d = Decide(View{Loading: true}, Requirements{})
	assert.Equal(t, ShowLoading, d.Outcome)
	assert.Equal(t, PlaceholderGeneric, d.Placeholder)
}

func TestDecide_AnonymousRedirectsToLogin(t *testing.T) {
	d := Decide(View{}, Requirements{})
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, PathLogin, d.Target)
}

func TestDecide_StoredTokenNotYetConfirmedShowsVerifying(t *testing.T) {
	// The window between optimistic restore and confirmed validation must
	// not bounce the user to login.
	d := Decide(View{HasStoredToken: true}, Requirements{})
	assert.Equal(t, ShowLoading, d.Outcome)
	assert.Equal(t, PlaceholderVerifying, d.Placeholder)
}

func TestDecide_RequireAdmin(t *testing.T) {
	d := Decide(authedView(domainsession.RolePatient), Requirements{RequireAdmin: true})
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, PathHome, d.Target)

	// Clinic staff are not admins for admin-only routes.
	d = Decide(authedView(domainsession.RoleClinicStaff), Requirements{RequireAdmin: true})
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, PathHome, d.Target)

	d = Decide(authedView(domainsession.RoleAdmin), Requirements{RequireAdmin: true})
	assert.Equal(t, Render, d.Outcome)
}

func TestDecide_RequirePatientProfile(t *testing.T) {
	view := authedView(domainsession.RolePatient)
	d := Decide(view, Requirements{RequirePatientProfile: true})
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, PathCheckIn, d.Target)

	view.HasProfile = true
	d = Decide(view, Requirements{RequirePatientProfile: true})
	assert.Equal(t, Render, d.Outcome)

	// Admins bypass the profile requirement.
	d = Decide(authedView(domainsession.RoleAdmin), Requirements{RequirePatientProfile: true})
	assert.Equal(t, Render, d.Outcome)
}

func TestDecide_RequireAssignedLine(t *testing.T) {
	// Admin bypasses entirely, even with no profile at all.
	d := Decide(authedView(domainsession.RoleAdmin), Requirements{RequireAssignedLine: true})
	assert.Equal(t, Render, d.Outcome)

	// No profile: back to check-in.
	view := authedView(domainsession.RolePatient)
	d = Decide(view, Requirements{RequireAssignedLine: true})
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, PathCheckIn, d.Target)

	// Profile but no line: back to check-in.
	view.HasProfile = true
	d = Decide(view, Requirements{RequireAssignedLine: true})
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, PathCheckIn, d.Target)

	// Profile and line but incomplete data: finish the profile first.
	view.HasAssignedLine = true
	d = Decide(view, Requirements{RequireAssignedLine: true})
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, PathCompleteProfile, d.Target)

	// Fully set up: render.
	view.ProfileComplete = true
	d = Decide(view, Requirements{RequireAssignedLine: true})
	assert.Equal(t, Render, d.Outcome)
}

func TestDecide_NoRequirementsRendersForAuthenticated(t *testing.T) {
	d := Decide(authedView(domainsession.RolePatient), Requirements{})
	assert.Equal(t, Render, d.Outcome)
}

func TestNewView_ProjectsSnapshot(t *testing.T) {
	sess := domainsession.Session{
		Token:  "tok",
		Status: domainsession.StatusAuthenticated,
		User: &domainsession.User{
			Role:           domainsession.RolePatient,
			AssignedLineID: 3,
			Profile:        completeProfile(),
		},
	}
	v := NewView(sess)
	assert.True(t, v.Authenticated)
	assert.True(t, v.HasStoredToken)
	assert.False(t, v.Loading)
	assert.Equal(t, domainsession.RolePatient, v.Role)
	assert.True(t, v.HasProfile)
	assert.True(t, v.ProfileComplete)
	assert.True(t, v.HasAssignedLine)

	v = NewView(domainsession.Session{Status: domainsession.StatusValidating, Token: "tok"})
	assert.True(t, v.Loading)
	assert.False(t, v.Authenticated)
}

func TestCorrectNavigation_TriagedPatientLeavesCheckIn(t *testing.T) {
	user := &domainsession.User{
		Role:           domainsession.RolePatient,
		AssignedLineID: 5,
		Profile:        completeProfile(),
	}
	view := NewView(domainsession.Session{
		Token:  "tok",
		Status: domainsession.StatusAuthenticated,
		User:   user,
	})

	target, ok := CorrectNavigation(PathCheckIn, view, user)
	assert.True(t, ok)
	assert.Equal(t, PathAgenda, target)

	// Incomplete profile corrects to the completion page instead.
	user.Profile.Height = ""
	view = NewView(domainsession.Session{Token: "tok", Status: domainsession.StatusAuthenticated, User: user})
	target, ok = CorrectNavigation(PathCheckIn, view, user)
	assert.True(t, ok)
	assert.Equal(t, PathCompleteProfile, target)
}

func TestCorrectNavigation_UntriagedPatientLeavesLineGatedSections(t *testing.T) {
	user := &domainsession.User{Role: domainsession.RolePatient}
	view := NewView(domainsession.Session{Token: "tok", Status: domainsession.StatusAuthenticated, User: user})

	for _, path := range []string{PathAgenda, "/jornada", "/prontuario/123", "/diario"} {
		target, ok := CorrectNavigation(path, view, user)
		assert.True(t, ok, "path %s", path)
		assert.Equal(t, PathCheckIn, target)
	}

	// Unrelated sections are left alone.
	_, ok := CorrectNavigation("/perfil", view, user)
	assert.False(t, ok)
}

func TestCorrectNavigation_AdminAndAnonymousUntouched(t *testing.T) {
	admin := &domainsession.User{Role: domainsession.RoleAdmin, AssignedLineID: 2}
	view := NewView(domainsession.Session{Token: "tok", Status: domainsession.StatusAuthenticated, User: admin})
	_, ok := CorrectNavigation(PathCheckIn, view, admin)
	assert.False(t, ok)

	_, ok = CorrectNavigation(PathAgenda, View{}, nil)
	assert.False(t, ok)
}
