package routing

// Package routing contains the pure route-authorization policies of the
// portal client: the landing-path planner evaluated after login, the
// per-navigation access gate, and the navigation-correction pass. It
// performs no I/O and holds no state; the session manager and UI shell
// feed it consistent snapshots.

import (
	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
)

// Canonical navigation targets. These are literal paths served by the
// portal shell.
const (
	PathHome            = "/"
	PathLogin           = "/login"
	PathAdmin           = "/admin"
	PathAgenda          = "/agenda"
	PathCheckIn         = "/check-in-periodico"
	PathCompleteProfile = "/completar-perfil"
)

// lineGatedPaths are the sections reachable only after triage into a
// care line. The correction pass sends untriaged patients entering any
// of them back to check-in.
var lineGatedPaths = []string{PathAgenda, "/jornada", "/prontuario", "/diario"}

// LandingPath returns the canonical landing path for a user, evaluated
// in fixed order: staff land on the admin area regardless of profile
// state; untriaged patients go to periodic check-in; triaged patients
// with an incomplete profile go to profile completion; everyone else
// lands on the agenda.
func LandingPath(user domainsession.User) string {
	if user.Role.IsStaff() {
		return PathAdmin
	}
	if !user.HasAssignedLine() {
		return PathCheckIn
	}
	if !user.HasCompleteProfile() {
		return PathCompleteProfile
	}
	return PathAgenda
}
