package session

// Package session contains domain-level types for the portal's client-held
// session: who the current user is believed to be, and how far along the
// client is in confirming that belief with the server.
// It is pure and free of framework/adapter concerns.

import "strings"

// Role represents an application's authorization role.
// Keep string form for easy persistence.
// Valid values are defined as constants below; a user always carries
// exactly one of them once loaded.
type Role string

const (
	RolePatient     Role = "PATIENT"
	RoleAdmin       Role = "ADMIN"
	RoleClinicStaff Role = "CLINIC_STAFF"
	RoleClinicOwner Role = "CLINIC_OWNER"
)

// legacyRoleUser is an old role name still emitted by some server
// deployments; it is equivalent to PATIENT during role resolution only.
const legacyRoleUser = "USER"

// IsStaff returns true for roles that operate the clinic side of the portal.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleClinicOwner || r == RoleClinicStaff
}

// CanOwnProfile returns true for roles that may have a patient profile.
func (r Role) CanOwnProfile() bool { return r == RolePatient }

// Status is the lifecycle state of the client-held session.
// It is derived at runtime and never persisted.
type Status string

const (
	// StatusUnknown is the state before bootstrap has run.
	StatusUnknown Status = "unknown"
	// StatusRestoring is the state while the stored snapshot is being read.
	StatusRestoring Status = "restoring"
	// StatusValidating is the state while a credential is being confirmed
	// with the server and no optimistic snapshot backs it.
	StatusValidating Status = "validating"
	// StatusAuthenticated means the client believes the user is signed in.
	StatusAuthenticated Status = "authenticated"
	// StatusUnauthenticated means there is no usable session.
	StatusUnauthenticated Status = "unauthenticated"
)

// IsLoading reports whether the session is still being established and
// consumers should hold rendering decisions.
func (s Status) IsLoading() bool {
	return s == StatusRestoring || s == StatusValidating
}

// ProfileData is the patient profile carried on the user snapshot.
// The four stored fields are independently optional on the server; Age is
// derived during enrichment. A nil *ProfileData means "profile not created
// yet", which is a normal state and not an error.
type ProfileData struct {
	DateOfBirth string `json:"date_of_birth"`
	BloodType   string `json:"blood_type"`
	Height      string `json:"height"`
	Weight      string `json:"weight"`
	Age         int    `json:"age"`
}

// IsComplete reports whether all four stored profile fields are present.
// This is the single definition of profile completeness shared by the
// redirect planner and the access gate; any one missing field forces the
// profile-completion path.
func (p ProfileData) IsComplete() bool {
	return strings.TrimSpace(p.DateOfBirth) != "" &&
		strings.TrimSpace(p.BloodType) != "" &&
		strings.TrimSpace(p.Height) != "" &&
		strings.TrimSpace(p.Weight) != ""
}

// User is the last-known identity snapshot held by the session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	CPF   string `json:"cpf"`
	Role  Role   `json:"role"`

	// AssignedLineID identifies the care line the patient was triaged
	// into. Zero means not triaged; negative values never occur (the API
	// adapter normalizes them away).
	AssignedLineID int64 `json:"assigned_line_id"`
	// CareLine is the display name of the assigned care line, if any.
	CareLine string `json:"care_line"`

	// Profile is nil until a patient profile exists.
	Profile *ProfileData `json:"profile,omitempty"`
}

// HasAssignedLine reports whether the patient has been triaged into a care line.
func (u User) HasAssignedLine() bool { return u.AssignedLineID > 0 }

// HasCompleteProfile reports whether a profile exists and is complete.
func (u User) HasCompleteProfile() bool {
	return u.Profile != nil && u.Profile.IsComplete()
}

// Clone returns a deep copy of the user so snapshots handed to consumers
// cannot alias manager-internal state.
func (u User) Clone() User {
	out := u
	if u.Profile != nil {
		p := *u.Profile
		out.Profile = &p
	}
	return out
}
